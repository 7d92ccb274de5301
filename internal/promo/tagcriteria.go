package promo

import (
	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// TagCriteriaItem is one specific item a bundle promotion requires.
type TagCriteriaItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Uom  string    `json:"uom"`
}

// TagCriteria describes a bundle requirement: N of these specific items
// and/or M of another tag, with a minimum count of distinct qualifiers.
type TagCriteria struct {
	Items                 []TagCriteriaItem `json:"items"`
	ItemMinQty            money.Quantity    `json:"itemMinQty"`
	ItemMinUomType        uom.Type          `json:"itemMinUomType"`
	MinItemCombination    int               `json:"minItemCombination"`
	IsRatioBased          bool              `json:"isRatioBased"`
	IncludedTag           string            `json:"includedTag,omitempty"`
	IncludedTagMinQty     money.Quantity    `json:"includedTagMinQty"`
	IncludedTagMinUomType uom.Type          `json:"includedTagMinUomType"`
}

// ItemStatus carries the catalog facts needed to decide whether a referenced
// item is currently sellable. Loaded by the upstream fetch.
type ItemStatus struct {
	Active          bool
	HasPrice        bool
	HasSalesConfig  bool
	Excluded        bool
	HasRetailConfig bool
}

// Sellable applies the same predicate used for top-level catalog listing.
// Buyers in a retail-restricted segment additionally require a retail config
// row.
func (s ItemStatus) Sellable(retailRestricted bool) bool {
	if !s.Active || !s.HasPrice || !s.HasSalesConfig || s.Excluded {
		return false
	}
	if retailRestricted && !s.HasRetailConfig {
		return false
	}
	return true
}

// StatusLookup resolves the catalog status of a referenced item. A missing
// entry means the item is unknown and therefore not sellable.
type StatusLookup func(itemID uuid.UUID) (ItemStatus, bool)

// ValidateTagCriteria checks that every item the bundle references is itself
// sellable. If any referenced item fails, the whole promotion is rejected
// rather than partially degraded: the bundle cannot be satisfied. Returns
// false on rejection.
func ValidateTagCriteria(tc TagCriteria, lookup StatusLookup, retailRestricted bool) (TagCriteria, bool) {
	for _, item := range tc.Items {
		status, ok := lookup(item.ID)
		if !ok || !status.Sellable(retailRestricted) {
			return TagCriteria{}, false
		}
	}
	return tc, true
}
