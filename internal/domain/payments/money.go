package payments

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/yungbote/payments-example/internal/domain/aggregates"
)

// Money is a positive amount in an ISO-4217 currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, code string) (Money, error) {
	const op = "money.new"
	if amount.Sign() <= 0 {
		return Money{}, aggregates.Validation(op, "amount must be greater than zero, got %s", amount.String())
	}
	unit, err := parseCurrency(code)
	if err != nil {
		return Money{}, aggregates.NewError(aggregates.CodeValidation, op, err.Error(), nil)
	}
	scale, _ := currency.Standard.Rounding(unit)
	if !amount.Equal(amount.Truncate(int32(scale))) {
		return Money{}, aggregates.Validation(op, "amount %s exceeds %d decimal places allowed for %s", amount.String(), scale, code)
	}
	return Money{amount: amount, currency: code}, nil
}

// MoneyFromFloat converts raw numeric input. NaN and infinities are rejected before conversion.
func MoneyFromFloat(amount float64, code string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, aggregates.Validation("money.new", "amount must be a finite number")
	}
	return NewMoney(decimal.NewFromFloat(amount), code)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.String() + " " + m.currency
}

func parseCurrency(code string) (currency.Unit, error) {
	if len(code) != 3 {
		return currency.Unit{}, fmt.Errorf("currency must be a 3-letter ISO-4217 code, got %q", code)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return currency.Unit{}, fmt.Errorf("currency must be uppercase letters, got %q", code)
		}
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("unknown currency %q", code)
	}
	return unit, nil
}
