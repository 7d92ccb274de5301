package promo

import (
	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// Kind discriminates the structural shape of a promotion.
type Kind string

const (
	// KindDirect is a single-condition promotion with one flat benefit.
	KindDirect Kind = "DIRECT"
	// KindStrataQty is a tiered promotion with quantity thresholds.
	KindStrataQty Kind = "STRATA_QTY"
	// KindStrataAmount is a tiered promotion with purchase-amount thresholds.
	KindStrataAmount Kind = "STRATA_AMOUNT"
)

// Condition is one threshold of a promotion. Quantity-kind promotions use
// MinQty/MinQtyUomType, amount-kind promotions use MinAmount; the two are
// never mixed within one promotion.
type Condition struct {
	MinQty        money.Quantity   `json:"minQty"`
	MinQtyUomType uom.Type         `json:"minQtyUomType"`
	MinAmount     money.Money      `json:"minAmount"`
	Benefit       PromotionBenefit `json:"benefit"`
	TagCriteria   *TagCriteria     `json:"tagCriteria,omitempty"`
}

// PromotionReadModel is the engine's view of one promotion definition bound to
// one product. Shared definitions are never mutated: Bind constructs a fresh
// value carrying the product's UOM conversion.
type PromotionReadModel struct {
	ID           uuid.UUID
	Kind         Kind
	Priority     int
	ExternalID   string
	ExternalType string
	Target       Target
	IsRegular    bool
	Conditions   []Condition

	// PromotionIDs and Priorities track the source definitions after a merge.
	PromotionIDs []uuid.UUID
	Priorities   []int

	// Conversion is the owning product's UOM conversion, set by Bind.
	Conversion uom.Conversion
}

// Bind attaches a shared definition to one product, producing a fresh value
// with its own condition slice so per-product state never leaks across
// products. Benefit-less conditions are dropped and strata conditions are
// sorted by ascending base-converted threshold.
func (p PromotionReadModel) Bind(conv uom.Conversion) PromotionReadModel {
	bound := p
	bound.Conversion = conv
	bound.Conditions = cloneConditions(p.Conditions)
	bound.Conditions = dropZeroBenefit(bound.Conditions)
	switch p.Kind {
	case KindStrataQty:
		sortByBaseMinQty(bound.Conditions, conv)
	case KindStrataAmount:
		sortByMinAmount(bound.Conditions)
	}
	if len(bound.PromotionIDs) == 0 {
		bound.PromotionIDs = []uuid.UUID{p.ID}
	} else {
		bound.PromotionIDs = append([]uuid.UUID(nil), p.PromotionIDs...)
	}
	if len(bound.Priorities) == 0 {
		bound.Priorities = []int{p.Priority}
	} else {
		bound.Priorities = append([]int(nil), p.Priorities...)
	}
	return bound
}

func cloneConditions(conds []Condition) []Condition {
	out := make([]Condition, len(conds))
	for i, c := range conds {
		out[i] = c
		out[i].Benefit.Discounts = append([]Benefit(nil), c.Benefit.Discounts...)
		out[i].Benefit.Coins = append([]Benefit(nil), c.Benefit.Coins...)
		if c.Benefit.MaxQty != nil {
			maxQty := *c.Benefit.MaxQty
			out[i].Benefit.MaxQty = &maxQty
		}
		if c.Benefit.FreeProduct != nil {
			fp := *c.Benefit.FreeProduct
			out[i].Benefit.FreeProduct = &fp
		}
		if c.TagCriteria != nil {
			tc := *c.TagCriteria
			tc.Items = append([]TagCriteriaItem(nil), c.TagCriteria.Items...)
			out[i].TagCriteria = &tc
		}
	}
	return out
}

// Valid reports whether the promotion still grants anything after benefit-less
// conditions were dropped. Invalid promotions are excluded upstream, never
// surfaced with a zero effect.
func (p PromotionReadModel) Valid() bool {
	return len(p.Conditions) > 0
}

// HasTagCriteria reports whether any condition carries a bundle requirement.
func (p PromotionReadModel) HasTagCriteria() bool {
	for _, c := range p.Conditions {
		if c.TagCriteria != nil {
			return true
		}
	}
	return false
}

// HasFreeProduct reports whether any condition grants a free item.
func (p PromotionReadModel) HasFreeProduct() bool {
	for _, c := range p.Conditions {
		if c.Benefit.FreeProduct != nil {
			return true
		}
	}
	return false
}
