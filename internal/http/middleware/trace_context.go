package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/payments-example/internal/platform/ctxutil"
)

const (
	headerTraceID        = "X-Trace-Id"
	headerRequestID      = "X-Request-Id"
	headerIdempotencyKey = "Idempotency-Key"

	maxInboundID = 128
)

// AttachTraceContext stores request, trace and idempotency identifiers on the request
// context and echoes the first two as response headers. An active span's trace id wins
// over a client-supplied one; inbound ids that are too long or carry control characters
// are replaced.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		td := &ctxutil.TraceData{
			RequestID:      inboundID(c.GetHeader(headerRequestID)),
			TraceID:        inboundID(c.GetHeader(headerTraceID)),
			IdempotencyKey: strings.TrimSpace(c.GetHeader(headerIdempotencyKey)),
		}
		if td.RequestID == "" {
			td.RequestID = uuid.NewString()
		}
		if sc := span.SpanContext(); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		} else if td.TraceID == "" {
			td.TraceID = uuid.NewString()
		}
		span.SetAttributes(attribute.String("http.request_id", td.RequestID))

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Header(headerTraceID, td.TraceID)
		c.Header(headerRequestID, td.RequestID)
		c.Next()
	}
}

func inboundID(raw string) string {
	id := strings.TrimSpace(raw)
	if len(id) > maxInboundID {
		return ""
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return id
}
