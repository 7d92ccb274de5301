package promo

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// ErrCannotCombine is raised when Combine is invoked on a pair that fails
// IsCombineable. This is a programmer-contract violation; TryCombine catches
// it and keeps the promotions separate.
var ErrCannotCombine = errors.New("promo: cannot combine promotions")

// IsCombineable decides whether two promotions can be presented as one offer:
// same structural shape (direct with direct, strata-qty with strata-qty), no
// tag criteria, identical (item, tag) target, no free-product benefit, and
// pairwise benefit-combineable conditions. Strata-amount promotions are never
// combined; they stay distinct, stacked offers.
func IsCombineable(a, b PromotionReadModel) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != KindDirect && a.Kind != KindStrataQty {
		return false
	}
	if a.HasTagCriteria() || b.HasTagCriteria() {
		return false
	}
	if !a.Target.SameTarget(b.Target) {
		return false
	}
	if a.HasFreeProduct() || b.HasFreeProduct() {
		return false
	}
	switch a.Kind {
	case KindDirect:
		if len(a.Conditions) != 1 || len(b.Conditions) != 1 {
			return false
		}
		return benefitsCombineable(a.Conditions[0].Benefit, b.Conditions[0].Benefit)
	case KindStrataQty:
		if len(a.Conditions) == 0 || len(b.Conditions) == 0 {
			return false
		}
		for _, ca := range a.Conditions {
			for _, cb := range b.Conditions {
				if !benefitsCombineable(ca.Benefit, cb.Benefit) {
					return false
				}
			}
		}
		return true
	}
	return false
}

// benefitsCombineable requires every discount and coin entry across both
// benefits to share one scale-UOM class. Mixing percentage and amount types is
// allowed; the entries are concatenated.
func benefitsCombineable(x, y PromotionBenefit) bool {
	var scale uom.Type
	seen := false
	for _, list := range [][]Benefit{x.Discounts, x.Coins, y.Discounts, y.Coins} {
		for _, b := range list {
			if !seen {
				scale = b.ScaleUomType
				seen = true
				continue
			}
			if b.ScaleUomType != scale {
				return false
			}
		}
	}
	return true
}

// Combine merges two combineable promotions into a single presented offer.
// Returns ErrCannotCombine when the pair fails the combinability predicate.
func Combine(a, b PromotionReadModel) (PromotionReadModel, error) {
	if !IsCombineable(a, b) {
		return PromotionReadModel{}, ErrCannotCombine
	}
	switch a.Kind {
	case KindDirect:
		return combineDirect(a, b), nil
	default:
		return combineStrataQty(a, b), nil
	}
}

// TryCombine attempts a combine and reports whether it happened. A failed
// combine is the normal "present separately" path, never an error surfaced to
// the client.
func TryCombine(a, b PromotionReadModel) (PromotionReadModel, bool) {
	merged, err := Combine(a, b)
	if err != nil {
		return PromotionReadModel{}, false
	}
	return merged, true
}

// MergePromotions folds a promotion list through pairwise combining so the
// buyer sees one offer per compatible target instead of overlapping rows.
func MergePromotions(promos []PromotionReadModel) []PromotionReadModel {
	out := make([]PromotionReadModel, 0, len(promos))
	for _, p := range promos {
		combined := false
		for i := range out {
			if merged, ok := TryCombine(out[i], p); ok {
				out[i] = merged
				combined = true
				break
			}
		}
		if !combined {
			out = append(out, p)
		}
	}
	return out
}

// combineDirect concatenates the two single benefits in ascending-priority
// order and unions the bookkeeping. The merged threshold is the larger of the
// two minimums so the combined offer is only shown where both source
// promotions are realizable.
func combineDirect(a, b PromotionReadModel) PromotionReadModel {
	first, second := orderByPriority(a, b)
	merged := first
	cond := first.Conditions[0]
	other := second.Conditions[0]
	if baseMinQty(other, second.Conversion).GreaterThanOrEqual(baseMinQty(cond, first.Conversion)) {
		cond.MinQty = other.MinQty
		cond.MinQtyUomType = other.MinQtyUomType
	}
	cond.Benefit = mergeBenefits(first.Conditions[0].Benefit, other.Benefit, first.Conversion, second.Conversion)
	merged.Conditions = []Condition{cond}
	merged.PromotionIDs = unionIDs(first.PromotionIDs, second.PromotionIDs)
	merged.Priorities = unionInts(first.Priorities, second.Priorities)
	return merged
}

// combineStrataQty produces a fully reconciled staircase over the union of
// both promotions' base-converted thresholds. Each merged tier carries the
// benefit of each source promotion's applicable condition at that threshold,
// so any quantity maps to exactly one merged condition and no sub-range is
// discounted twice.
func combineStrataQty(a, b PromotionReadModel) PromotionReadModel {
	first, second := orderByPriority(a, b)

	thresholds := unionThresholds(first, second)
	merged := first
	merged.Conditions = make([]Condition, 0, len(thresholds))
	for _, t := range thresholds {
		condA := first.ApplicableCondition(t)
		condB := second.ApplicableCondition(t)
		var benefit PromotionBenefit
		switch {
		case condA != nil && condB != nil:
			benefit = mergeBenefits(condA.Benefit, condB.Benefit, first.Conversion, second.Conversion)
		case condA != nil:
			benefit = condA.Benefit
		case condB != nil:
			benefit = condB.Benefit
		default:
			continue
		}
		merged.Conditions = append(merged.Conditions, Condition{
			MinQty:        t,
			MinQtyUomType: uom.Base,
			Benefit:       benefit,
		})
	}
	merged.PromotionIDs = unionIDs(first.PromotionIDs, second.PromotionIDs)
	merged.Priorities = unionInts(first.Priorities, second.Priorities)
	return merged
}

// unionThresholds collects the distinct base-converted thresholds of both
// promotions in ascending order.
func unionThresholds(a, b PromotionReadModel) []money.Quantity {
	seen := make(map[string]money.Quantity)
	for _, c := range a.Conditions {
		t := baseMinQty(c, a.Conversion)
		seen[t.String()] = t
	}
	for _, c := range b.Conditions {
		t := baseMinQty(c, b.Conversion)
		seen[t.String()] = t
	}
	out := make([]money.Quantity, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

// mergeBenefits concatenates benefit lists preserving the caller-established
// priority order. When both sides cap the discountable quantity the stricter
// cap wins, compared in base units since the caps may be declared on
// different UOM tiers.
func mergeBenefits(first, second PromotionBenefit, convFirst, convSecond uom.Conversion) PromotionBenefit {
	out := PromotionBenefit{
		Discounts: append(append([]Benefit(nil), first.Discounts...), second.Discounts...),
		Coins:     append(append([]Benefit(nil), first.Coins...), second.Coins...),
	}
	switch {
	case first.MaxQty != nil && second.MaxQty != nil:
		firstBase := convFirst.ToBase(*first.MaxQty, first.MaxUomType)
		secondBase := convSecond.ToBase(*second.MaxQty, second.MaxUomType)
		if secondBase.LessThan(firstBase) {
			maxQty := *second.MaxQty
			out.MaxQty = &maxQty
			out.MaxUomType = second.MaxUomType
		} else {
			maxQty := *first.MaxQty
			out.MaxQty = &maxQty
			out.MaxUomType = first.MaxUomType
		}
	case first.MaxQty != nil:
		maxQty := *first.MaxQty
		out.MaxQty = &maxQty
		out.MaxUomType = first.MaxUomType
	case second.MaxQty != nil:
		maxQty := *second.MaxQty
		out.MaxQty = &maxQty
		out.MaxUomType = second.MaxUomType
	}
	return out
}

func orderByPriority(a, b PromotionReadModel) (PromotionReadModel, PromotionReadModel) {
	if b.Priority < a.Priority {
		return b, a
	}
	return a, b
}

func unionIDs(a, b []uuid.UUID) []uuid.UUID {
	out := append([]uuid.UUID(nil), a...)
	for _, id := range b {
		dup := false
		for _, existing := range out {
			if existing == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	return out
}

func unionInts(a, b []int) []int {
	out := append([]int(nil), a...)
	for _, v := range b {
		dup := false
		for _, existing := range out {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}
