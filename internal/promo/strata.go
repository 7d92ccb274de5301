package promo

import (
	"sort"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// baseMinQty converts a condition's quantity threshold to base units so that
// PACK and BASE thresholds within one promotion order correctly.
func baseMinQty(c Condition, conv uom.Conversion) money.Quantity {
	return conv.ToBase(c.MinQty, c.MinQtyUomType)
}

func dropZeroBenefit(conds []Condition) []Condition {
	out := conds[:0]
	for _, c := range conds {
		if !c.Benefit.IsZero() {
			out = append(out, c)
		}
	}
	return out
}

func sortByBaseMinQty(conds []Condition, conv uom.Conversion) {
	sort.SliceStable(conds, func(i, j int) bool {
		return baseMinQty(conds[i], conv).LessThan(baseMinQty(conds[j], conv))
	})
}

func sortByMinAmount(conds []Condition) {
	sort.SliceStable(conds, func(i, j int) bool {
		return conds[i].MinAmount.LessThan(conds[j].MinAmount)
	})
}

// ApplicableCondition selects the highest quantity tier satisfied by the
// purchased base-unit quantity, or nil when even the lowest threshold is not
// met. Conditions must already be sorted, which Bind guarantees.
func (p PromotionReadModel) ApplicableCondition(qtyBase money.Quantity) *Condition {
	var found *Condition
	for i := range p.Conditions {
		if qtyBase.GreaterThanOrEqual(baseMinQty(p.Conditions[i], p.Conversion)) {
			found = &p.Conditions[i]
		}
	}
	return found
}

// ApplicableAmountCondition selects the highest amount tier satisfied by the
// purchase amount.
func (p PromotionReadModel) ApplicableAmountCondition(amount money.Money) *Condition {
	var found *Condition
	for i := range p.Conditions {
		if amount.GreaterThanOrEqual(p.Conditions[i].MinAmount) {
			found = &p.Conditions[i]
		}
	}
	return found
}

// HighestCondition returns the top tier of the ladder, the counterpart of
// LowestCondition. Nil when the promotion carries no conditions.
func (p PromotionReadModel) HighestCondition() *Condition {
	if len(p.Conditions) == 0 {
		return nil
	}
	return &p.Conditions[len(p.Conditions)-1]
}

// LowestCondition returns the smallest-threshold condition: the entry tier
// advertised on catalog views before a cart quantity is known.
func (p PromotionReadModel) LowestCondition() *Condition {
	if len(p.Conditions) == 0 {
		return nil
	}
	return &p.Conditions[0]
}
