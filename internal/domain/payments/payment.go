package payments

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
)

// Payment is the aggregate root. Its status only ever leaves PENDING once.
type Payment struct {
	status      Status
	amount      Money
	metadata    Metadata
	customerID  string
	description *string
}

// NewPayment carries the caller-controlled fields of a payment. Status is not one of them.
type NewPayment struct {
	Amount      Money
	CustomerID  string
	Description *string
	Metadata    Metadata
}

func Create(in NewPayment) (entity.Transient[*Payment], error) {
	const op = "payment.create"
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		return entity.Transient[*Payment]{}, aggregates.Validation(op, "customer id is required")
	}
	if in.Amount.currency == "" {
		return entity.Transient[*Payment]{}, aggregates.Validation(op, "amount is required")
	}
	p := &Payment{
		status:      StatusPending,
		amount:      in.Amount,
		metadata:    in.Metadata,
		customerID:  customerID,
		description: normalizeDescription(in.Description),
	}
	if p.metadata.props == nil {
		p.metadata = NewMetadata(nil)
	}
	return entity.NewTransient(p), nil
}

func (p *Payment) Status() Status     { return p.status }
func (p *Payment) Amount() Money      { return p.amount }
func (p *Payment) Metadata() Metadata { return p.metadata }
func (p *Payment) CustomerID() string { return p.customerID }

func (p *Payment) Description() (string, bool) {
	if p.description == nil {
		return "", false
	}
	return *p.description, true
}

func (p *Payment) Complete() error { return p.transition("payment.complete", StatusCompleted) }
func (p *Payment) Fail() error     { return p.transition("payment.fail", StatusFailed) }

// Apply drives the state machine from a processing outcome.
func (p *Payment) Apply(o Outcome) error {
	switch o {
	case OutcomeApproved:
		return p.Complete()
	case OutcomeDeclined:
		return p.Fail()
	default:
		return aggregates.Validation("payment.apply", "unknown processing outcome %d", int(o))
	}
}

func (p *Payment) transition(op string, to Status) error {
	if p.status != StatusPending {
		return aggregates.NewError(
			aggregates.CodeInvalidStateTransition,
			op,
			fmt.Sprintf("cannot move payment from %s to %s", p.status, to),
			nil,
		)
	}
	p.status = to
	return nil
}

// Snapshot is the primitive decomposition of a payment used by persistence mappers.
type Snapshot struct {
	Amount      decimal.Decimal
	Currency    string
	Status      string
	CustomerID  string
	Description *string
	Metadata    map[string]any
}

func (p *Payment) Snapshot() Snapshot {
	var desc *string
	if p.description != nil {
		d := *p.description
		desc = &d
	}
	return Snapshot{
		Amount:      p.amount.Amount(),
		Currency:    p.amount.Currency(),
		Status:      string(p.status),
		CustomerID:  p.customerID,
		Description: desc,
		Metadata:    p.metadata.Props(),
	}
}

// Load rebuilds a persisted payment. Corrupt values fail instead of being defaulted.
func Load(meta entity.Meta, s Snapshot) (entity.Loaded[*Payment], error) {
	const op = "payment.load"
	amount, err := NewMoney(s.Amount, s.Currency)
	if err != nil {
		return entity.Loaded[*Payment]{}, aggregates.Wrap(aggregates.CodeValidation, op, err)
	}
	status, err := ParseStatus(s.Status)
	if err != nil {
		return entity.Loaded[*Payment]{}, aggregates.Wrap(aggregates.CodeValidation, op, err)
	}
	if strings.TrimSpace(s.CustomerID) == "" {
		return entity.Loaded[*Payment]{}, aggregates.Validation(op, "customer id is empty")
	}
	return entity.NewLoaded(meta, &Payment{
		status:      status,
		amount:      amount,
		metadata:    NewMetadata(s.Metadata),
		customerID:  s.CustomerID,
		description: normalizeDescription(s.Description),
	})
}

func normalizeDescription(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	v := *d
	return &v
}
