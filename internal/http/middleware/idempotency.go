package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	idemredis "github.com/yungbote/payments-example/internal/clients/redis"
	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/http/response"
	"github.com/yungbote/payments-example/internal/platform/ctxutil"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

const (
	headerReplayed    = "Idempotent-Replayed"
	maxIdempotencyKey = 255
)

var errIdempotencyInFlight = errors.New("a request with this idempotency key is already in progress")

// IdempotencyStore persists the first successful response per key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (idemredis.Record, bool, error)
	Reserve(ctx context.Context, key string) (token string, ok bool, err error)
	Complete(ctx context.Context, key string, rec idemredis.Record) error
	Release(ctx context.Context, key, token string) error
}

// ReplayCounter is notified whenever a stored response is served again.
type ReplayCounter interface {
	IncIdempotencyReplay()
}

// Idempotency replays the stored 2xx response for a repeated Idempotency-Key header.
// Requests without the header pass through. Store outages fail open.
func Idempotency(store IdempotencyStore, replays ReplayCounter, log *logger.Logger) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("middleware", "Idempotency")

	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
		if raw == "" {
			c.Next()
			return
		}
		if len(raw) > maxIdempotencyKey {
			response.RespondError(c, http.StatusBadRequest, string(domainagg.CodeValidation), errors.New("idempotency key is too long"))
			return
		}
		ctx := c.Request.Context()
		key := c.Request.Method + ":" + c.FullPath() + ":" + raw
		logFields := ctxutil.LogFields(ctx)

		rec, found, err := store.Get(ctx, key)
		if err != nil {
			log.Warn("idempotency lookup failed; continuing without replay", append([]interface{}{"error", err}, logFields...)...)
			c.Next()
			return
		}
		if found {
			replayOrReject(c, rec, replays)
			return
		}

		token, acquired, err := store.Reserve(ctx, key)
		if err != nil {
			log.Warn("idempotency reserve failed; continuing without replay", append([]interface{}{"error", err}, logFields...)...)
			c.Next()
			return
		}
		if !acquired {
			response.RespondError(c, http.StatusConflict, string(domainagg.CodeConflict), errIdempotencyInFlight)
			return
		}

		w := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// the client may be gone; the outcome still has to be recorded
		storeCtx := context.WithoutCancel(ctx)
		status := w.Status()
		if status >= 200 && status < 300 {
			err = store.Complete(storeCtx, key, idemredis.Record{
				Status:      status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        w.buf.Bytes(),
			})
		} else {
			err = store.Release(storeCtx, key, token)
		}
		if err != nil {
			log.Error("idempotency record update failed", append([]interface{}{"status", status, "error", err}, logFields...)...)
		}
	}
}

func replayOrReject(c *gin.Context, rec idemredis.Record, replays ReplayCounter) {
	if rec.State != idemredis.StateCompleted {
		response.RespondError(c, http.StatusConflict, string(domainagg.CodeConflict), errIdempotencyInFlight)
		return
	}
	if replays != nil {
		replays.IncIdempotencyReplay()
	}
	c.Header(headerReplayed, "true")
	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Data(rec.Status, contentType, rec.Body)
	c.Abort()
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
