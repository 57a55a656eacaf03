package payments

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/payments-example/internal/data/persistence"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

type Repo = persistence.Repository[*domain.Payment, PaymentRow]

// NewRepo builds the payments repository. Extra options are applied after the defaults.
func NewRepo(db *gorm.DB, baseLog *logger.Logger, hooks persistence.Hooks, opts ...persistence.Option) *Repo {
	base := []persistence.Option{
		persistence.WithName("payments"),
		persistence.WithHooks(hooks),
	}
	return persistence.NewRepository[*domain.Payment, PaymentRow](db, baseLog, Mapper{}, append(base, opts...)...)
}

func ByID(id uuid.UUID) persistence.Criteria {
	return persistence.Criteria{"id": id}
}

func ByCustomer(customerID string) persistence.Criteria {
	return persistence.Criteria{"customer_id": customerID}
}

func ByStatus(status domain.Status) persistence.Criteria {
	return persistence.Criteria{"status": status.String()}
}
