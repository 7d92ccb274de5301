package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percentage is an immutable percentage value, e.g. 10 for 10%.
type Percentage struct {
	d decimal.Decimal
}

// NewPercentage wraps a decimal value as a Percentage.
func NewPercentage(d decimal.Decimal) Percentage {
	return Percentage{d: d}
}

// PercentFromInt builds a Percentage from an integer value.
func PercentFromInt(v int64) Percentage {
	return Percentage{d: decimal.NewFromInt(v)}
}

// ApplyTo computes amount * p / 100.
func (p Percentage) ApplyTo(amount Money) Money {
	return Money{d: amount.d.Mul(p.d).Div(hundred)}
}

// IsZero reports whether the percentage is zero.
func (p Percentage) IsZero() bool {
	return p.d.IsZero()
}

// IsPositive reports whether the percentage is above zero.
func (p Percentage) IsPositive() bool {
	return p.d.IsPositive()
}

// Decimal exposes the underlying decimal value.
func (p Percentage) Decimal() decimal.Decimal {
	return p.d
}

// String renders the percentage as a plain decimal string.
func (p Percentage) String() string {
	return p.d.String()
}

// MarshalJSON renders the percentage as a JSON number.
func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(p.d.String()), nil
}

// UnmarshalJSON parses a JSON number or quoted decimal string.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	p.d = d
	return nil
}
