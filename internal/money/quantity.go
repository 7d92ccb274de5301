package money

import "github.com/shopspring/decimal"

// Quantity is an immutable item count or pack multiplier.
type Quantity struct {
	d decimal.Decimal
}

// NewQuantity wraps a decimal value as a Quantity.
func NewQuantity(d decimal.Decimal) Quantity {
	return Quantity{d: d}
}

// QtyFromInt builds a Quantity from an integer count.
func QtyFromInt(v int64) Quantity {
	return Quantity{d: decimal.NewFromInt(v)}
}

// ZeroQty returns the zero quantity.
func ZeroQty() Quantity {
	return Quantity{}
}

// OneQty returns the unit quantity.
func OneQty() Quantity {
	return Quantity{d: decimal.NewFromInt(1)}
}

// Add returns q + other.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{d: q.d.Add(other.d)}
}

// Sub returns q - other without clamping.
func (q Quantity) Sub(other Quantity) Quantity {
	return Quantity{d: q.d.Sub(other.d)}
}

// SubClamped returns q - other floored at zero. Quota arithmetic never goes
// negative.
func (q Quantity) SubClamped(other Quantity) Quantity {
	out := q.d.Sub(other.d)
	if out.IsNegative() {
		return Quantity{}
	}
	return Quantity{d: out}
}

// Mul returns q * other.
func (q Quantity) Mul(other Quantity) Quantity {
	return Quantity{d: q.d.Mul(other.d)}
}

// Div returns q / other. Callers must guard against a zero divisor.
func (q Quantity) Div(other Quantity) Quantity {
	return Quantity{d: q.d.Div(other.d)}
}

// Min returns the smaller of q and other.
func (q Quantity) Min(other Quantity) Quantity {
	if other.d.LessThan(q.d) {
		return other
	}
	return q
}

// Cmp compares two quantities.
func (q Quantity) Cmp(other Quantity) int {
	return q.d.Cmp(other.d)
}

// LessThan reports whether q < other.
func (q Quantity) LessThan(other Quantity) bool {
	return q.d.LessThan(other.d)
}

// GreaterThanOrEqual reports whether q >= other.
func (q Quantity) GreaterThanOrEqual(other Quantity) bool {
	return q.d.GreaterThanOrEqual(other.d)
}

// Equal reports whether the two quantities are numerically equal.
func (q Quantity) Equal(other Quantity) bool {
	return q.d.Equal(other.d)
}

// IsZero reports whether the quantity is zero.
func (q Quantity) IsZero() bool {
	return q.d.IsZero()
}

// IsPositive reports whether the quantity is above zero.
func (q Quantity) IsPositive() bool {
	return q.d.IsPositive()
}

// Decimal exposes the underlying decimal value.
func (q Quantity) Decimal() decimal.Decimal {
	return q.d
}

// String renders the quantity as a plain decimal string.
func (q Quantity) String() string {
	return q.d.String()
}

// MarshalJSON renders the quantity as a JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.d.String()), nil
}

// UnmarshalJSON parses a JSON number or quoted decimal string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	q.d = d
	return nil
}
