package money

import "github.com/shopspring/decimal"

// Money is an immutable monetary amount in rupiah.
type Money struct {
	d decimal.Decimal
}

// NewMoney wraps a decimal value as Money.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d}
}

// MoneyFromInt builds Money from a whole rupiah amount.
func MoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// MoneyFromString parses a decimal string into Money.
func MoneyFromString(v string) (Money, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return Money{}, err
	}
	return Money{d: d}, nil
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub returns m - other without clamping.
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// SubClamped returns m - other floored at zero. Discount arithmetic never
// produces a negative price.
func (m Money) SubClamped(other Money) Money {
	out := m.d.Sub(other.d)
	if out.IsNegative() {
		return Money{}
	}
	return Money{d: out}
}

// MulQty scales the amount by a quantity.
func (m Money) MulQty(q Quantity) Money {
	return Money{d: m.d.Mul(q.d)}
}

// DivQty divides the amount by a quantity. Callers must guard against a zero
// divisor.
func (m Money) DivQty(q Quantity) Money {
	return Money{d: m.d.Div(q.d)}
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other.d.LessThan(m.d) {
		return other
	}
	return m
}

// Cmp compares two amounts: -1 when m < other, 0 when equal, 1 when greater.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.d.LessThan(other.d)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.d.GreaterThan(other.d)
}

// GreaterThanOrEqual reports whether m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.d.GreaterThanOrEqual(other.d)
}

// Equal reports whether the two amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String renders the amount as a plain decimal string.
func (m Money) String() string {
	return m.d.String()
}

// MarshalJSON renders the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON parses a JSON number or quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.d = d
	return nil
}
