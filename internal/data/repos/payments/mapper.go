package payments

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/yungbote/payments-example/internal/data/persistence"
	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
	"github.com/yungbote/payments-example/internal/platform/pointers"
)

// numeric(10,2)
const (
	amountScale     = 2
	amountPrecision = 10
)

var amountLimit = decimal.New(1, amountPrecision-amountScale)

// Mapper converts payments to rows and back. Empty metadata and descriptions are stored as NULL.
type Mapper struct{}

var _ persistence.Mapper[*domain.Payment, PaymentRow] = Mapper{}

func (Mapper) ToDomain(row PaymentRow) (entity.Loaded[*domain.Payment], error) {
	meta, err := row.Meta()
	if err != nil {
		return entity.Loaded[*domain.Payment]{}, err
	}
	var md map[string]any
	if len(row.Metadata) > 0 {
		md = map[string]any(row.Metadata)
	}
	return domain.Load(meta, domain.Snapshot{
		Amount:      row.Amount,
		Currency:    row.Currency,
		Status:      row.Status,
		CustomerID:  row.CustomerID,
		Description: row.Description,
		Metadata:    md,
	})
}

func (Mapper) ToPersistence(e entity.Entity[*domain.Payment]) (PaymentRow, error) {
	const op = "payments.to_persistence"
	if e == nil || e.Value() == nil {
		return PaymentRow{}, domainagg.Validation(op, "payment is required")
	}
	p := e.Value()
	amount := p.Amount().Amount()
	if !fitsAmountColumn(amount) {
		return PaymentRow{}, domainagg.Validation(op, "amount %s does not fit numeric(%d,%d)", amount.String(), amountPrecision, amountScale)
	}
	desc, _ := p.Description()
	row := PaymentRow{
		Base:        persistence.BaseOf(e),
		Amount:      amount,
		Currency:    p.Amount().Currency(),
		Status:      p.Status().String(),
		CustomerID:  p.CustomerID(),
		Description: pointers.StringOrNil(desc),
	}
	if !p.Metadata().IsEmpty() {
		row.Metadata = datatypes.JSONMap(p.Metadata().Props())
	}
	return row, nil
}

func fitsAmountColumn(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(amountScale)) && d.Abs().LessThan(amountLimit)
}
