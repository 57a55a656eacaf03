package payments

import (
	"context"

	"github.com/yungbote/payments-example/internal/data/persistence"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
)

// Repository is the slice of the payment store the handlers depend on.
type Repository interface {
	FindOne(ctx context.Context, criteria persistence.Criteria) (entity.Loaded[*domain.Payment], bool, error)
	FindWithPagination(ctx context.Context, criteria persistence.Criteria, req persistence.PageRequest) (persistence.Page[entity.Loaded[*domain.Payment]], error)
	Save(ctx context.Context, e entity.Entity[*domain.Payment]) (entity.Loaded[*domain.Payment], error)
}

// Processor decides whether a pending payment is approved or declined.
type Processor interface {
	Process(ctx context.Context, p *domain.Payment) (domain.Outcome, error)
}

// OutcomeRecorder counts final payment statuses. *observability.Metrics satisfies it.
type OutcomeRecorder interface {
	IncPaymentOutcome(status string)
}

type nopRecorder struct{}

func (nopRecorder) IncPaymentOutcome(string) {}
