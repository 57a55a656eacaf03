package response

import (
	"encoding/json"
	"time"

	"github.com/yungbote/payments-example/internal/data/persistence"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
)

// Payment is the flattened wire form of a stored payment. Amount is a JSON number written
// from the decimal's exact string form.
type Payment struct {
	ID          string         `json:"id"`
	Amount      json.Number    `json:"amount"`
	Currency    string         `json:"currency"`
	Status      string         `json:"status"`
	CustomerID  string         `json:"customerId"`
	Description *string        `json:"description"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type PaymentList struct {
	Items []Payment `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

func FromPayment(l entity.Loaded[*domain.Payment]) Payment {
	p := l.Value()
	out := Payment{
		ID:         l.ID().String(),
		Amount:     json.Number(p.Amount().Amount().String()),
		Currency:   p.Amount().Currency(),
		Status:     p.Status().String(),
		CustomerID: p.CustomerID(),
		CreatedAt:  l.CreatedAt(),
		UpdatedAt:  l.UpdatedAt(),
	}
	if d, ok := p.Description(); ok {
		out.Description = &d
	}
	if !p.Metadata().IsEmpty() {
		out.Metadata = p.Metadata().Props()
	}
	return out
}

func FromPaymentPage(page persistence.Page[entity.Loaded[*domain.Payment]]) PaymentList {
	items := make([]Payment, 0, len(page.Items))
	for _, l := range page.Items {
		items = append(items, FromPayment(l))
	}
	return PaymentList{Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit}
}
