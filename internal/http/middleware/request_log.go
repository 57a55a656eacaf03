package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/payments-example/internal/platform/ctxutil"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain has finished.
// Routes listed in quiet are logged at debug level unless they fail.
func RequestLogger(log *logger.Logger, quiet ...string) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("middleware", "RequestLogger")
	quietRoutes := make(map[string]bool, len(quiet))
	for _, route := range quiet {
		quietRoutes[route] = true
	}

	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration_ms", time.Since(began).Milliseconds(),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, "payment_id", id)
		}
		if c.Writer.Header().Get(headerReplayed) != "" {
			fields = append(fields, "idempotent_replay", true)
		}
		fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case quietRoutes[route]:
			log.Debug("request served", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}
