package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/payments-example/internal/data/persistence"
	paymentrepo "github.com/yungbote/payments-example/internal/data/repos/payments"
	"github.com/yungbote/payments-example/internal/observability"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

type Repos struct {
	Payment *paymentrepo.Repo
}

func wireRepos(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics) Repos {
	log.Info("Wiring repos...")
	hooks := persistence.NewObservabilityHooks(metrics)
	return Repos{
		Payment: paymentrepo.NewRepo(db, log, hooks),
	}
}
