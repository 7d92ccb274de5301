package promo

import (
	"testing"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

func boxConversion() uom.Conversion {
	pack := uom.Level{Tier: 2, Name: "BOX", PackQty: money.QtyFromInt(12)}
	return uom.Conversion{Pack: &pack}
}

func pctBenefit(v int64) PromotionBenefit {
	return PromotionBenefit{Discounts: []Benefit{{
		Type:         BenefitPercentage,
		Percentage:   money.PercentFromInt(v),
		ScaleUomType: uom.Base,
	}}}
}

func strataQtyPromo(priority int, conds ...Condition) PromotionReadModel {
	return PromotionReadModel{
		ID:         uuid.New(),
		Kind:       KindStrataQty,
		Priority:   priority,
		Target:     Target{ItemID: "item-1", Tag: "*"},
		Conditions: conds,
	}
}

func qtyCond(minQty int64, t uom.Type, benefit PromotionBenefit) Condition {
	return Condition{MinQty: money.QtyFromInt(minQty), MinQtyUomType: t, Benefit: benefit}
}

func TestBindSortsMixedUomThresholds(t *testing.T) {
	// 2 BOX = 24 base units, so the BASE 10 threshold sorts first.
	p := strataQtyPromo(1,
		qtyCond(2, uom.Pack, pctBenefit(20)),
		qtyCond(10, uom.Base, pctBenefit(10)),
	)
	bound := p.Bind(boxConversion())
	if !baseMinQty(bound.Conditions[0], bound.Conversion).Equal(money.QtyFromInt(10)) {
		t.Fatalf("expected first threshold 10, got %s", baseMinQty(bound.Conditions[0], bound.Conversion))
	}
	if !baseMinQty(bound.Conditions[1], bound.Conversion).Equal(money.QtyFromInt(24)) {
		t.Fatalf("expected second threshold 24, got %s", baseMinQty(bound.Conditions[1], bound.Conversion))
	}
}

func TestBindDropsBenefitLessConditions(t *testing.T) {
	p := strataQtyPromo(1,
		qtyCond(1, uom.Base, PromotionBenefit{}),
		qtyCond(10, uom.Base, pctBenefit(10)),
	)
	bound := p.Bind(boxConversion())
	if len(bound.Conditions) != 1 {
		t.Fatalf("expected one condition after drop, got %d", len(bound.Conditions))
	}
	empty := strataQtyPromo(1, qtyCond(1, uom.Base, PromotionBenefit{}))
	if empty.Bind(boxConversion()).Valid() {
		t.Fatal("promotion with only benefit-less conditions must be invalid")
	}
}

func TestBindDoesNotMutateSharedDefinition(t *testing.T) {
	shared := strataQtyPromo(1,
		qtyCond(2, uom.Pack, pctBenefit(20)),
		qtyCond(10, uom.Base, pctBenefit(10)),
	)
	bound := shared.Bind(boxConversion())
	bound.Conditions[0].Benefit.Discounts[0].Percentage = money.PercentFromInt(99)
	if shared.Conditions[1].Benefit.Discounts[0].Percentage.String() != "10" {
		t.Fatal("bind must deep-copy conditions; shared definition was mutated")
	}
}

func TestApplicableConditionSelectsHighestSatisfiedTier(t *testing.T) {
	// Scenario: minQty 1 -> 10%, minQty 24 -> 20%, cart qty 30 base units.
	p := strataQtyPromo(1,
		qtyCond(1, uom.Base, pctBenefit(10)),
		qtyCond(24, uom.Base, pctBenefit(20)),
	).Bind(boxConversion())

	cond := p.ApplicableCondition(money.QtyFromInt(30))
	if cond == nil {
		t.Fatal("expected an applicable condition")
	}
	discount := CalculateDiscount(money.MoneyFromInt(1000), cond.Benefit.Discounts[0], money.OneQty())
	if !discount.Equal(money.MoneyFromInt(200)) {
		t.Fatalf("expected discount 200 per unit, got %s", discount)
	}
	if offered := money.MoneyFromInt(1000).SubClamped(discount); !offered.Equal(money.MoneyFromInt(800)) {
		t.Fatalf("expected offered base price 800, got %s", offered)
	}
}

func TestApplicableConditionBelowLowestThreshold(t *testing.T) {
	p := strataQtyPromo(1, qtyCond(24, uom.Base, pctBenefit(20))).Bind(boxConversion())
	if p.ApplicableCondition(money.QtyFromInt(5)) != nil {
		t.Fatal("expected no applicable condition below the lowest threshold")
	}
}

func TestStrataMonotonicity(t *testing.T) {
	p := strataQtyPromo(1,
		qtyCond(1, uom.Base, pctBenefit(5)),
		qtyCond(12, uom.Base, pctBenefit(10)),
		qtyCond(2, uom.Pack, pctBenefit(20)),
	).Bind(boxConversion())

	price := money.MoneyFromInt(1000)
	prev := money.ZeroMoney()
	for qty := int64(1); qty <= 60; qty++ {
		cond := p.ApplicableCondition(money.QtyFromInt(qty))
		if cond == nil {
			t.Fatalf("qty %d: expected applicable condition", qty)
		}
		d := CalculateDiscount(price, cond.Benefit.Discounts[0], money.OneQty())
		if d.LessThan(prev) {
			t.Fatalf("qty %d: discount decreased from %s to %s", qty, prev, d)
		}
		prev = d
	}
}

func TestHighestCondition(t *testing.T) {
	p := strataQtyPromo(1,
		qtyCond(1, uom.Base, pctBenefit(5)),
		qtyCond(2, uom.Pack, pctBenefit(20)),
	).Bind(boxConversion())
	highest := p.HighestCondition()
	if highest == nil || !baseMinQty(*highest, p.Conversion).Equal(money.QtyFromInt(24)) {
		t.Fatalf("expected highest threshold 24, got %+v", highest)
	}
}

func TestApplicableAmountCondition(t *testing.T) {
	p := PromotionReadModel{
		Kind: KindStrataAmount,
		Conditions: []Condition{
			{MinAmount: money.MoneyFromInt(100_000), Benefit: pctBenefit(5)},
			{MinAmount: money.MoneyFromInt(500_000), Benefit: pctBenefit(10)},
		},
	}.Bind(uom.Conversion{})
	cond := p.ApplicableAmountCondition(money.MoneyFromInt(250_000))
	if cond == nil || !cond.MinAmount.Equal(money.MoneyFromInt(100_000)) {
		t.Fatalf("expected the 100000 tier, got %+v", cond)
	}
}
