package promo

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

func TestResolveBenefitDiscountAndCoin(t *testing.T) {
	def := BenefitDefinition{
		Type:      BenefitPercentage,
		Value:     decimal.NewFromInt(10),
		CoinType:  BenefitAmount,
		CoinValue: decimal.NewFromInt(250),
	}
	pb := ResolveBenefit(def, Scale{Qty: money.OneQty(), UomType: uom.Base}, nil)
	if len(pb.Discounts) != 1 || pb.Discounts[0].Type != BenefitPercentage {
		t.Fatalf("expected one percentage discount, got %+v", pb.Discounts)
	}
	if len(pb.Coins) != 1 || pb.Coins[0].Type != BenefitAmount {
		t.Fatalf("expected one amount coin, got %+v", pb.Coins)
	}
	if pb.Discounts[0].ScaleUomType != uom.Base {
		t.Fatalf("expected scale uom BASE, got %s", pb.Discounts[0].ScaleUomType)
	}
}

func TestResolveBenefitZeroValuesDropped(t *testing.T) {
	def := BenefitDefinition{Type: BenefitPercentage, Value: decimal.Zero}
	pb := ResolveBenefit(def, Scale{Qty: money.OneQty(), UomType: uom.Base}, nil)
	if !pb.IsZero() {
		t.Fatalf("expected zero benefit, got %+v", pb)
	}
}

func TestResolveBenefitFreeProduct(t *testing.T) {
	free := &FreeProduct{Name: "Teh Botol", BenefitQty: money.OneQty(), BenefitUom: "BOX"}
	pb := ResolveBenefit(BenefitDefinition{}, Scale{Qty: money.QtyFromInt(12), UomType: uom.Pack}, free)
	if pb.FreeProduct == nil {
		t.Fatal("expected free product benefit")
	}
	if pb.FreeProduct.ScaleUomType != uom.Pack {
		t.Fatalf("expected scale uom PACK, got %s", pb.FreeProduct.ScaleUomType)
	}
	if len(pb.Discounts) != 0 || len(pb.Coins) != 0 {
		t.Fatal("free product benefit must not carry discount or coin entries")
	}
	if pb.IsZero() {
		t.Fatal("free product benefit is not zero")
	}
}

func TestCalculateDiscountPercentage(t *testing.T) {
	b := Benefit{Type: BenefitPercentage, Percentage: money.PercentFromInt(10)}
	got := CalculateDiscount(money.MoneyFromInt(2000), b, money.OneQty())
	if !got.Equal(money.MoneyFromInt(200)) {
		t.Fatalf("expected 200, got %s", got)
	}
}

func TestCalculateDiscountAmountPerScale(t *testing.T) {
	b := Benefit{Type: BenefitAmount, Amount: money.MoneyFromInt(500), ScaleUomType: uom.Pack}
	got := CalculateDiscount(money.MoneyFromInt(2000), b, money.QtyFromInt(4))
	if !got.Equal(money.MoneyFromInt(125)) {
		t.Fatalf("expected 125 per unit, got %s", got)
	}
}

func TestCalculateDiscountUnknownType(t *testing.T) {
	got := CalculateDiscount(money.MoneyFromInt(2000), Benefit{}, money.OneQty())
	if !got.IsZero() {
		t.Fatalf("expected zero for absent benefit, got %s", got)
	}
}
