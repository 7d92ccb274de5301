package promo

import (
	"testing"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

func TestValidateTagCriteriaAllSellable(t *testing.T) {
	itemA := uuid.New()
	itemB := uuid.New()
	tc := TagCriteria{
		Items: []TagCriteriaItem{
			{ID: itemA, Name: "Indomie Goreng", Uom: "PCS"},
			{ID: itemB, Name: "Indomie Soto", Uom: "PCS"},
		},
		ItemMinQty:         money.QtyFromInt(5),
		ItemMinUomType:     uom.Base,
		MinItemCombination: 2,
	}
	statuses := map[uuid.UUID]ItemStatus{
		itemA: {Active: true, HasPrice: true, HasSalesConfig: true},
		itemB: {Active: true, HasPrice: true, HasSalesConfig: true},
	}
	lookup := func(id uuid.UUID) (ItemStatus, bool) {
		s, ok := statuses[id]
		return s, ok
	}
	got, ok := ValidateTagCriteria(tc, lookup, false)
	if !ok {
		t.Fatal("expected criteria to validate")
	}
	if len(got.Items) != 2 || got.MinItemCombination != 2 {
		t.Fatalf("criteria must pass through unchanged, got %+v", got)
	}
}

func TestValidateTagCriteriaUnpricedItemRejectsWholePromotion(t *testing.T) {
	itemA := uuid.New()
	itemB := uuid.New()
	tc := TagCriteria{Items: []TagCriteriaItem{{ID: itemA}, {ID: itemB}}}
	statuses := map[uuid.UUID]ItemStatus{
		itemA: {Active: true, HasPrice: true, HasSalesConfig: true},
		itemB: {Active: true, HasPrice: false, HasSalesConfig: true}, // no current price row
	}
	lookup := func(id uuid.UUID) (ItemStatus, bool) {
		s, ok := statuses[id]
		return s, ok
	}
	if _, ok := ValidateTagCriteria(tc, lookup, false); ok {
		t.Fatal("a single unsellable referenced item must reject the whole bundle")
	}
}

func TestValidateTagCriteriaUnknownItem(t *testing.T) {
	tc := TagCriteria{Items: []TagCriteriaItem{{ID: uuid.New()}}}
	lookup := func(uuid.UUID) (ItemStatus, bool) { return ItemStatus{}, false }
	if _, ok := ValidateTagCriteria(tc, lookup, false); ok {
		t.Fatal("unknown referenced item must reject the bundle")
	}
}

func TestSellableRetailRestriction(t *testing.T) {
	s := ItemStatus{Active: true, HasPrice: true, HasSalesConfig: true}
	if !s.Sellable(false) {
		t.Fatal("expected sellable for unrestricted buyer")
	}
	if s.Sellable(true) {
		t.Fatal("retail-restricted buyer requires a retail config row")
	}
	s.HasRetailConfig = true
	if !s.Sellable(true) {
		t.Fatal("expected sellable once retail config exists")
	}
	s.Excluded = true
	if s.Sellable(true) {
		t.Fatal("excluded item is never sellable")
	}
}
