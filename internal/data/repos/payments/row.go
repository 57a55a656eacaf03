package payments

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/yungbote/payments-example/internal/data/persistence"
)

// PaymentRow is the flat storage shape of a payment.
type PaymentRow struct {
	persistence.Base
	Amount      decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency    string            `gorm:"type:char(3);not null" json:"currency"`
	Status      string            `gorm:"type:varchar(16);not null;index" json:"status"`
	CustomerID  string            `gorm:"column:customer_id;type:varchar(255);not null;index" json:"customer_id"`
	Description *string           `gorm:"type:text" json:"description,omitempty"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
}

func (PaymentRow) TableName() string { return "payments" }
