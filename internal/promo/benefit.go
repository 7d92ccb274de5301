package promo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// BenefitType discriminates how a benefit value is interpreted.
type BenefitType string

const (
	// BenefitPercentage discounts a percentage of the running price.
	BenefitPercentage BenefitType = "PERCENTAGE"
	// BenefitAmount discounts a fixed amount per scale quantity.
	BenefitAmount BenefitType = "AMOUNT"
)

// Benefit is a single discount or coin entry.
type Benefit struct {
	Type         BenefitType      `json:"type"`
	Percentage   money.Percentage `json:"percentage,omitempty"`
	Amount       money.Money      `json:"amount,omitempty"`
	ScaleUomType uom.Type         `json:"scaleUomType"`
}

// IsZero reports whether the benefit carries no value.
func (b Benefit) IsZero() bool {
	switch b.Type {
	case BenefitPercentage:
		return !b.Percentage.IsPositive()
	case BenefitAmount:
		return !b.Amount.IsPositive()
	}
	return true
}

// FreeProduct describes a free-item benefit with enough UOM context for the
// client to render it ("+1 BOX free").
type FreeProduct struct {
	ItemID       uuid.UUID      `json:"itemId"`
	Name         string         `json:"name"`
	BenefitQty   money.Quantity `json:"benefitQty"`
	BenefitUom   string         `json:"benefitUom"`
	ScaleQty     money.Quantity `json:"scaleQty"`
	ScaleUomType uom.Type       `json:"scaleUomType"`
	Ladder       uom.Ladder     `json:"-"`
}

// PromotionBenefit aggregates the discount, coin, and free-product effects of
// one promotion condition.
type PromotionBenefit struct {
	Discounts   []Benefit       `json:"discounts"`
	Coins       []Benefit       `json:"coins"`
	MaxQty      *money.Quantity `json:"maxQty,omitempty"`
	MaxUomType  uom.Type        `json:"maxUomType,omitempty"`
	FreeProduct *FreeProduct    `json:"freeProduct,omitempty"`
}

// IsZero reports whether nothing of value is granted. Promotions whose every
// benefit is zero are dropped from the visible offer list.
func (pb PromotionBenefit) IsZero() bool {
	for _, b := range pb.Discounts {
		if !b.IsZero() {
			return false
		}
	}
	for _, b := range pb.Coins {
		if !b.IsZero() {
			return false
		}
	}
	return pb.FreeProduct == nil
}

// BenefitDefinition is the raw promotion row shape produced by the upstream
// fetch before it is resolved into a PromotionBenefit.
type BenefitDefinition struct {
	Type       BenefitType
	Value      decimal.Decimal
	CoinType   BenefitType
	CoinValue  decimal.Decimal
	MaxQty     *money.Quantity
	MaxUomType uom.Type
}

// Scale is the quantity the benefit is defined "per", e.g. Rp500 per PACK.
type Scale struct {
	Qty     money.Quantity
	UomType uom.Type
}

// ResolveBenefit maps a raw definition into discount and coin lists of length
// zero or one. When free is supplied the benefit is a free product instead of
// a discount or coin.
func ResolveBenefit(def BenefitDefinition, scale Scale, free *FreeProduct) PromotionBenefit {
	out := PromotionBenefit{
		MaxQty:     def.MaxQty,
		MaxUomType: def.MaxUomType,
	}
	if free != nil {
		fp := *free
		fp.ScaleQty = scale.Qty
		fp.ScaleUomType = scale.UomType
		out.FreeProduct = &fp
		return out
	}
	if b, ok := newBenefit(def.Type, def.Value, scale.UomType); ok {
		out.Discounts = append(out.Discounts, b)
	}
	if b, ok := newBenefit(def.CoinType, def.CoinValue, scale.UomType); ok {
		out.Coins = append(out.Coins, b)
	}
	return out
}

func newBenefit(t BenefitType, value decimal.Decimal, scaleUom uom.Type) (Benefit, bool) {
	if !value.IsPositive() {
		return Benefit{}, false
	}
	switch t {
	case BenefitPercentage:
		return Benefit{Type: BenefitPercentage, Percentage: money.NewPercentage(value), ScaleUomType: scaleUom}, true
	case BenefitAmount:
		return Benefit{Type: BenefitAmount, Amount: money.NewMoney(value), ScaleUomType: scaleUom}, true
	}
	return Benefit{}, false
}

// CalculateDiscount computes the per-unit monetary effect of a benefit against
// the running price. Amount benefits are configured "per scaleQty units", so
// the per-unit discount is the amount divided by the scale quantity. An
// unrecognized or absent benefit yields zero.
func CalculateDiscount(price money.Money, b Benefit, scaleQty money.Quantity) money.Money {
	switch b.Type {
	case BenefitPercentage:
		return b.Percentage.ApplyTo(price)
	case BenefitAmount:
		if !scaleQty.IsPositive() {
			return money.ZeroMoney()
		}
		return b.Amount.DivQty(scaleQty)
	}
	return money.ZeroMoney()
}
