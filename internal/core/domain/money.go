package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every transactional amount carries.
const MoneyScale int32 = 2

// Money is a fixed-point amount at MoneyScale. The zero value is zero.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney returns a signed amount. Values with more than MoneyScale decimal places are rejected.
func NewMoney(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places", apperrors.ErrInvalidAmount, d.String(), MoneyScale)
	}
	return Money{amount: d}, nil
}

// NewAmount returns a non-negative amount suitable for a debit or credit column.
func NewAmount(d decimal.Decimal) (Money, error) {
	m, err := NewMoney(d)
	if err != nil {
		return Money{}, err
	}
	if m.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s is negative", apperrors.ErrInvalidAmount, d.String())
	}
	return m, nil
}

// MoneyFromString parses a signed amount such as "-12.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidAmount, s)
	}
	return NewMoney(d)
}

// AmountFromString parses a non-negative amount.
func AmountFromString(s string) (Money, error) {
	m, err := MoneyFromString(s)
	if err != nil {
		return Money{}, err
	}
	return NewAmount(m.amount)
}

// MoneyFromMinorUnits builds an amount from an integer count of cents.
func MoneyFromMinorUnits(units int64) Money {
	return Money{amount: decimal.New(units, -MoneyScale)}
}

// MustMoney parses s and panics on failure. Intended for constants and tests.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MultiplyByRate multiplies by every rate in the chain exactly and rounds the
// final product once, half away from zero, to MoneyScale.
func (m Money) MultiplyByRate(rates ...decimal.Decimal) Money {
	product := m.amount
	for _, r := range rates {
		product = product.Mul(r)
	}
	return Money{amount: product.Round(MoneyScale)}
}

// MultiplyByPercent is MultiplyByRate with the rate expressed in percent (15 means 15%).
func (m Money) MultiplyByPercent(percent decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(percent).Shift(-2).Round(MoneyScale)}
}

func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs()}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Compare returns -1, 0 or +1.
func (m Money) Compare(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal exposes the underlying value for storage and SQL parameters.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly two decimal places, e.g. "1150.00".
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

// ToDisplayString renders the amount with thousands grouping, e.g. "-1,150.00".
func (m Money) ToDisplayString() string {
	digits := m.amount.Abs().StringFixed(MoneyScale)
	intPart, fracPart, _ := strings.Cut(digits, ".")

	var b strings.Builder
	if m.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
	}
	parsed, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SumMoney adds all amounts.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
