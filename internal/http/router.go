package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/payments-example/internal/http/handlers"
	httpMW "github.com/yungbote/payments-example/internal/http/middleware"
	"github.com/yungbote/payments-example/internal/observability"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	IdempotencyStore httpMW.IdempotencyStore

	PaymentHandler *httpH.PaymentHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", "/metrics"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Payments
		if cfg.PaymentHandler != nil {
			var idempotency gin.HandlerFunc
			if cfg.IdempotencyStore != nil {
				idempotency = httpMW.Idempotency(cfg.IdempotencyStore, cfg.Metrics, cfg.Log)
			} else {
				idempotency = func(c *gin.Context) { c.Next() }
			}
			api.POST("/payments", idempotency, cfg.PaymentHandler.CreatePayment)
			api.GET("/payments", cfg.PaymentHandler.ListPayments)
			api.GET("/payments/:id", cfg.PaymentHandler.GetPayment)
		}
	}

	return r
}
