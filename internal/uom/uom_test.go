package uom

import (
	"testing"

	"github.com/noah-isme/backend-grosir/internal/money"
)

func ladderBoxDozen() Ladder {
	return Ladder{
		{Tier: 1, Name: "CTN", PackQty: money.QtyFromInt(6)},
		{Tier: 2, Name: "BOX", PackQty: money.QtyFromInt(12)},
	}
}

func TestResolveEffectiveBase(t *testing.T) {
	eff := ResolveEffectiveBase("PCS", ladderBoxDozen())
	if eff.Name != "BOX" {
		t.Fatalf("expected BOX, got %s", eff.Name)
	}
	if !eff.Qty.Equal(money.QtyFromInt(12)) {
		t.Fatalf("expected pack qty 12, got %s", eff.Qty)
	}
}

func TestResolveEffectiveBaseFallback(t *testing.T) {
	eff := ResolveEffectiveBase("PCS", nil)
	if eff.Name != "PCS" || !eff.Qty.Equal(money.OneQty()) {
		t.Fatalf("expected inherent base PCS x1, got %s x%s", eff.Name, eff.Qty)
	}
}

func TestConversionFromLadder(t *testing.T) {
	conv := ConversionFromLadder(ladderBoxDozen())
	if conv.Pack == nil || conv.Pack.Name != "BOX" {
		t.Fatalf("expected pack level BOX, got %+v", conv.Pack)
	}
	if conv.Intermediate == nil || conv.Intermediate.Name != "CTN" {
		t.Fatalf("expected intermediate level CTN, got %+v", conv.Intermediate)
	}
}

func TestToBase(t *testing.T) {
	conv := ConversionFromLadder(ladderBoxDozen())
	if got := conv.ToBase(money.QtyFromInt(2), Pack); !got.Equal(money.QtyFromInt(24)) {
		t.Fatalf("expected 24, got %s", got)
	}
	if got := conv.ToBase(money.QtyFromInt(3), Intermediate); !got.Equal(money.QtyFromInt(18)) {
		t.Fatalf("expected 18, got %s", got)
	}
	if got := conv.ToBase(money.QtyFromInt(5), Base); !got.Equal(money.QtyFromInt(5)) {
		t.Fatalf("expected 5, got %s", got)
	}
}

func TestRoundTrip(t *testing.T) {
	conv := ConversionFromLadder(ladderBoxDozen())
	for _, tier := range []Type{Base, Intermediate, Pack} {
		if !conv.HasTier(tier) {
			continue
		}
		q := money.QtyFromInt(7)
		back := conv.FromBase(conv.ToBase(q, tier), tier)
		if !back.Equal(q) {
			t.Fatalf("round trip %s: expected 7, got %s", tier, back)
		}
	}
}

func TestMissingTierGuard(t *testing.T) {
	conv := Conversion{}
	if conv.HasTier(Intermediate) || conv.HasTier(Pack) {
		t.Fatal("expected no intermediate or pack tier")
	}
	if !conv.HasTier(Base) {
		t.Fatal("base tier must always exist")
	}
}
