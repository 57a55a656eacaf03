package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/payments-example/internal/data/db"
	"github.com/yungbote/payments-example/internal/http"
	httpH "github.com/yungbote/payments-example/internal/http/handlers"
	httpMW "github.com/yungbote/payments-example/internal/http/middleware"
	"github.com/yungbote/payments-example/internal/observability"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Payment *httpH.PaymentHandler
}

func wireHandlers(log *logger.Logger, services Services, database *db.Service) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(log, database),
		Payment: httpH.NewPaymentHandler(log, services.CreatePayment, services.GetPayment, services.ListPayments),
	}
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, clients Clients, metrics *observability.Metrics) http.RouterConfig {
	rc := http.RouterConfig{
		Log:            log,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Metrics:        metrics,
		PaymentHandler: handlers.Payment,
		HealthHandler:  handlers.Health,
	}
	if cfg.Otel.Enabled {
		rc.ServiceName = cfg.Otel.ServiceName
	}
	// a nil *IdempotencyStore must not become a non-nil interface
	if clients.Idempotency != nil {
		var store httpMW.IdempotencyStore = clients.Idempotency
		rc.IdempotencyStore = store
	}
	return rc
}

func ginMode(env string) string {
	switch env {
	case "production", "prod":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
