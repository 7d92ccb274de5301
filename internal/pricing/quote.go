package pricing

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/promo"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// TierPrice is the listed/offered/discounted price triplet for one UOM tier.
// Listed is the raw list price, Offered is the everyday price after lifetime
// promotions, Discounted is the final price after the best of regular
// promotions and flash sale.
type TierPrice struct {
	Uom        string      `json:"uom"`
	UomType    uom.Type    `json:"uomType"`
	Listed     money.Money `json:"listed"`
	Offered    money.Money `json:"offered"`
	Discounted money.Money `json:"discounted"`
}

// PromotionView is the externally consumed shape of one presented offer.
type PromotionView struct {
	PromotionIDs []uuid.UUID       `json:"promotionIds"`
	ExternalID   string            `json:"externalId"`
	ExternalType string            `json:"externalType,omitempty"`
	Kind         promo.Kind        `json:"kind"`
	IsRegular    bool              `json:"isRegular"`
	Target       promo.Target      `json:"target"`
	Conditions   []promo.Condition `json:"conditions"`
}

// FlashSaleView summarizes the flash sale and this product's quota share.
type FlashSaleView struct {
	ID              uuid.UUID      `json:"id"`
	ExternalID      string         `json:"externalId"`
	StartAt         time.Time      `json:"startAt"`
	EndAt           time.Time      `json:"endAt"`
	IsApplied       bool           `json:"isApplied"`
	DiscountableQty money.Quantity `json:"discountableQty"`
	RemainingQty    money.Quantity `json:"remainingQty"`
	MinQty          money.Quantity `json:"minQty"`
	MinQtyUomType   uom.Type       `json:"minQtyUomType"`
	Price           money.Money    `json:"price"`
}

// Quote is the pricing read model serialized to the buyer-facing client.
type Quote struct {
	ProductID       uuid.UUID       `json:"productId"`
	Name            string          `json:"name"`
	Tag             string          `json:"tag,omitempty"`
	Prices          []TierPrice     `json:"prices"`
	DiscountPerUnit money.Money     `json:"discountPerUnit"`
	CoinPerUnit     money.Money     `json:"coinPerUnit"`
	FinalPrice      money.Money     `json:"finalPrice"`
	Promotions      []PromotionView `json:"promotions"`
	FlashSale       *FlashSaleView  `json:"flashSale,omitempty"`
}

// Quote computes the read model: lifetime promotions first, regular
// promotions cascading through a running price in ascending-priority order,
// a separately-cascaded coin track, and a flash-sale price that competes with
// (never stacks on) the regular promotion price.
func (p *Product) Quote() Quote {
	offered := p.applyLifetime(p.ListedPrice)

	merged := p.promotion.MergedPromotions()
	regular, coin := p.cascade(offered, merged)

	final := regular
	var flashView *FlashSaleView
	if p.flashSale != nil {
		flashPrice := p.flashSalePrice(offered)
		flashView = p.flashSaleView(flashPrice)
		if p.flashSale.Quota.IsApplied {
			final = regular.Min(flashPrice)
		}
	}

	q := Quote{
		ProductID:       p.ID,
		Name:            p.Name,
		Tag:             p.Tag,
		Prices:          p.tierPrices(offered, final),
		DiscountPerUnit: offered.Sub(final),
		CoinPerUnit:     coin,
		FinalPrice:      final,
		Promotions:      promotionViews(merged),
		FlashSale:       flashView,
	}
	return q
}

// applyLifetime cascades lifetime promotions into the everyday price.
func (p *Product) applyLifetime(listed money.Money) money.Money {
	promos := append([]promo.PromotionReadModel(nil), p.lifetime...)
	sortByPriority(promos)
	price, _ := p.cascade(listed, promos)
	return price
}

// cascade applies each promotion's applicable benefit against a running
// price, clamping so the cumulative discount never exceeds the starting
// price. The coin track cascades with the same ordering but is never
// subtracted from the displayed price.
func (p *Product) cascade(start money.Money, promos []promo.PromotionReadModel) (money.Money, money.Money) {
	running := start
	coinRunning := start
	coinTotal := money.ZeroMoney()
	for _, pr := range promos {
		cond := p.applicableCondition(pr)
		if cond == nil {
			continue
		}
		for _, b := range cond.Benefit.Discounts {
			d := promo.CalculateDiscount(running, b, p.scaleQty(b.ScaleUomType))
			running = running.SubClamped(d)
		}
		for _, b := range cond.Benefit.Coins {
			c := promo.CalculateDiscount(coinRunning, b, p.scaleQty(b.ScaleUomType))
			coinRunning = coinRunning.SubClamped(c)
			coinTotal = coinTotal.Add(c)
		}
	}
	return running, coinTotal
}

// applicableCondition resolves which tier of a promotion is in effect for the
// current cart quantity. Catalog views without a cart quantity advertise the
// entry tier.
func (p *Product) applicableCondition(pr promo.PromotionReadModel) *promo.Condition {
	switch pr.Kind {
	case promo.KindStrataAmount:
		amount := p.ListedPrice.MulQty(p.cartQty)
		if cond := pr.ApplicableAmountCondition(amount); cond != nil {
			return cond
		}
		if p.cartQty.IsZero() {
			return pr.LowestCondition()
		}
		return nil
	default:
		if p.cartQty.IsZero() {
			return pr.LowestCondition()
		}
		return pr.ApplicableCondition(p.cartQty)
	}
}

// scaleQty converts one unit of the benefit's scale UOM into base units so an
// amount benefit configured "per PACK" spreads across the pack's contents.
func (p *Product) scaleQty(t uom.Type) money.Quantity {
	if !t.Valid() || t == uom.Base {
		return money.OneQty()
	}
	return p.Conversion.ToBase(money.OneQty(), t)
}

// flashSalePrice applies the flash-sale discount against the everyday price.
func (p *Product) flashSalePrice(offered money.Money) money.Money {
	running := offered
	for _, b := range p.flashSale.Sale.Benefit.Discounts {
		d := promo.CalculateDiscount(running, b, p.scaleQty(b.ScaleUomType))
		running = running.SubClamped(d)
	}
	return running
}

func (p *Product) flashSaleView(price money.Money) *FlashSaleView {
	fs := p.flashSale
	return &FlashSaleView{
		ID:              fs.Sale.ID,
		ExternalID:      fs.Sale.ExternalID,
		StartAt:         fs.Sale.StartAt,
		EndAt:           fs.Sale.EndAt,
		IsApplied:       fs.Quota.IsApplied,
		DiscountableQty: fs.Quota.DiscountableQty,
		RemainingQty:    fs.Quota.RemainingQty,
		MinQty:          fs.Quota.MinQty,
		MinQtyUomType:   fs.Quota.MinQtyUomType,
		Price:           price,
	}
}

// tierPrices renders the price triplet for every tier the product carries.
func (p *Product) tierPrices(offered, final money.Money) []TierPrice {
	out := []TierPrice{{
		Uom:        p.BaseUom,
		UomType:    uom.Base,
		Listed:     p.ListedPrice,
		Offered:    offered,
		Discounted: final,
	}}
	if lvl := p.Conversion.Intermediate; lvl != nil {
		out = append(out, TierPrice{
			Uom:        lvl.Name,
			UomType:    uom.Intermediate,
			Listed:     p.ListedPrice.MulQty(lvl.PackQty),
			Offered:    offered.MulQty(lvl.PackQty),
			Discounted: final.MulQty(lvl.PackQty),
		})
	}
	if lvl := p.Conversion.Pack; lvl != nil {
		out = append(out, TierPrice{
			Uom:        lvl.Name,
			UomType:    uom.Pack,
			Listed:     p.ListedPrice.MulQty(lvl.PackQty),
			Offered:    offered.MulQty(lvl.PackQty),
			Discounted: final.MulQty(lvl.PackQty),
		})
	}
	return out
}

func promotionViews(promos []promo.PromotionReadModel) []PromotionView {
	out := make([]PromotionView, 0, len(promos))
	for _, pr := range promos {
		out = append(out, PromotionView{
			PromotionIDs: pr.PromotionIDs,
			ExternalID:   pr.ExternalID,
			ExternalType: pr.ExternalType,
			Kind:         pr.Kind,
			IsRegular:    pr.IsRegular,
			Target:       pr.Target,
			Conditions:   pr.Conditions,
		})
	}
	return out
}

func sortByPriority(promos []promo.PromotionReadModel) {
	sort.SliceStable(promos, func(i, j int) bool {
		return promos[i].Priority < promos[j].Priority
	})
}
