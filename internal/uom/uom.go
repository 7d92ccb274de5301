package uom

import (
	"sort"

	"github.com/noah-isme/backend-grosir/internal/money"
)

// Type identifies a unit-of-measure tier.
type Type string

const (
	// Base is the smallest sellable unit, e.g. PCS.
	Base Type = "BASE"
	// Intermediate is an office-specific middle multiplier, e.g. CTN.
	Intermediate Type = "INTERMEDIATE"
	// Pack is the largest unit with a fixed per-item multiplier, e.g. BOX.
	Pack Type = "PACK"
)

// Valid reports whether t names a known tier.
func (t Type) Valid() bool {
	switch t {
	case Base, Intermediate, Pack:
		return true
	}
	return false
}

// Level is one office-scoped row of an item's UOM ladder. A higher tier means
// a larger pack.
type Level struct {
	Tier    int
	Name    string
	PackQty money.Quantity
}

// Ladder is an item's ordered list of UOM levels for one sales office.
type Ladder []Level

// EffectiveBase is the unit a buyer actually transacts in.
type EffectiveBase struct {
	Name string
	Qty  money.Quantity
}

// ResolveEffectiveBase picks the highest-tier ladder row, falling back to the
// item's inherent base UOM when no office-specific row exists.
func ResolveEffectiveBase(baseName string, rows Ladder) EffectiveBase {
	if len(rows) == 0 {
		return EffectiveBase{Name: baseName, Qty: money.OneQty()}
	}
	top := rows[0]
	for _, row := range rows[1:] {
		if row.Tier > top.Tier {
			top = row
		}
	}
	return EffectiveBase{Name: top.Name, Qty: top.PackQty}
}

// Conversion holds the multipliers needed to express quantities in base units.
// A nil level means the item has no such tier for the buyer's office.
type Conversion struct {
	Intermediate *Level
	Pack         *Level
}

// ConversionFromLadder derives a Conversion from ladder rows: the highest tier
// becomes the pack level, and the next one down the intermediate level.
func ConversionFromLadder(rows Ladder) Conversion {
	if len(rows) == 0 {
		return Conversion{}
	}
	sorted := make(Ladder, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tier > sorted[j].Tier })
	conv := Conversion{}
	pack := sorted[0]
	conv.Pack = &pack
	if len(sorted) > 1 {
		mid := sorted[1]
		conv.Intermediate = &mid
	}
	return conv
}

// HasTier reports whether the item carries the given tier. Base always exists.
func (c Conversion) HasTier(t Type) bool {
	switch t {
	case Base:
		return true
	case Intermediate:
		return c.Intermediate != nil
	case Pack:
		return c.Pack != nil
	}
	return false
}

// ToBase converts a quantity expressed in the given tier into base units.
// Callers must check HasTier first; a missing tier leaves the quantity
// unchanged rather than silently dividing.
func (c Conversion) ToBase(qty money.Quantity, from Type) money.Quantity {
	switch from {
	case Pack:
		if c.Pack != nil {
			return qty.Mul(c.Pack.PackQty)
		}
	case Intermediate:
		if c.Intermediate != nil {
			return qty.Mul(c.Intermediate.PackQty)
		}
	}
	return qty
}

// FromBase converts a base-unit quantity into the given tier.
func (c Conversion) FromBase(qty money.Quantity, to Type) money.Quantity {
	switch to {
	case Pack:
		if c.Pack != nil && c.Pack.PackQty.IsPositive() {
			return qty.Div(c.Pack.PackQty)
		}
	case Intermediate:
		if c.Intermediate != nil && c.Intermediate.PackQty.IsPositive() {
			return qty.Div(c.Intermediate.PackQty)
		}
	}
	return qty
}
