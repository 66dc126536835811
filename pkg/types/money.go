package types

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a numeric(10,2) amount in Kenyan shillings. It serialises as a bare
// JSON number with two decimal places.
type Money struct {
	decimal.Decimal
}

// maxAmount is the first value a numeric(10,2) column cannot hold.
var maxAmount = decimal.New(1, 8)

var (
	ErrAmountPrecision = errors.New("amount has more than two decimal places")
	ErrAmountRange     = errors.New("amount must be below 100000000")
)

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

func MoneyFromInt(i int64) Money {
	return NewMoney(decimal.NewFromInt(i))
}

// ParseMoney accepts "20", "20.5" or "20.50". Sub-cent digits and values the
// column cannot store are rejected rather than rounded.
func ParseMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q", value)
	}
	if err := checkAmount(d); err != nil {
		return Money{}, err
	}
	return NewMoney(d), nil
}

func checkAmount(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(2)) {
		return ErrAmountPrecision
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrAmountRange
	}
	return nil
}

// CheckRange reports ErrAmountRange for amounts outside numeric(10,2), such as
// a derived order total.
func (m Money) CheckRange() error {
	if m.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrAmountRange
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return NewMoney(m.Decimal.Add(other.Decimal))
}

// Times multiplies the amount by a quantity.
func (m Money) Times(qty int) Money {
	return NewMoney(m.Decimal.Mul(decimal.NewFromInt(int64(qty))))
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = Money{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	if err := checkAmount(d); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.StringFixed(2), nil
}

func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}
