package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/flashsale"
	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/promo"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// Product is the read model built once per product per request. It exclusively
// owns its promotion and flash-sale state; shared promotion definitions are
// bound into it, never referenced.
type Product struct {
	ID          uuid.UUID
	Name        string
	Tag         string
	BaseUom     string
	Ladder      uom.Ladder
	Conversion  uom.Conversion
	ListedPrice money.Money // per base unit

	cartQty     money.Quantity
	cartAddedAt time.Time

	lifetime  []promo.PromotionReadModel
	promotion *ProductPromotion
	flashSale *ProductFlashSale
}

// NewProduct constructs the read model for one catalog item.
func NewProduct(id uuid.UUID, name, tag, baseUom string, ladder uom.Ladder, listedPrice money.Money) *Product {
	conv := uom.ConversionFromLadder(ladder)
	return &Product{
		ID:          id,
		Name:        name,
		Tag:         tag,
		BaseUom:     baseUom,
		Ladder:      ladder,
		Conversion:  conv,
		ListedPrice: listedPrice,
		promotion:   &ProductPromotion{conv: conv},
	}
}

// SetCartQty records the buyer's cart quantity in base units.
func (p *Product) SetCartQty(qty money.Quantity) {
	p.cartQty = qty
}

// SetCartLine records the cart quantity together with the insertion time used
// for flash-sale quota ordering.
func (p *Product) SetCartLine(qty money.Quantity, addedAt time.Time) {
	p.cartQty = qty
	p.cartAddedAt = addedAt
}

// CartQty returns the recorded cart quantity in base units.
func (p *Product) CartQty() money.Quantity {
	return p.cartQty
}

// CartAddedAt returns when the line entered the cart.
func (p *Product) CartAddedAt() time.Time {
	return p.cartAddedAt
}

// ApplyPromotion binds a shared promotion definition to this product. The
// promotion is silently dropped when it no longer grants anything after
// binding, or when its scale UOM names a tier this product lacks: an offer the
// buyer cannot realize is never presented.
func (p *Product) ApplyPromotion(def promo.PromotionReadModel) {
	bound := def.Bind(p.Conversion)
	if !bound.Valid() {
		return
	}
	if !p.scaleCompatible(bound) {
		return
	}
	p.promotion.promotions = append(p.promotion.promotions, bound)
}

// ApplyLifetimePromotion records a promotion applied before all regular ones
// in the price cascade.
func (p *Product) ApplyLifetimePromotion(def promo.PromotionReadModel) {
	bound := def.Bind(p.Conversion)
	if !bound.Valid() || !p.scaleCompatible(bound) {
		return
	}
	p.lifetime = append(p.lifetime, bound)
}

// ApplyFlashSale attaches a flash sale together with this product's share of
// the tag-group quota.
func (p *Product) ApplyFlashSale(sale flashsale.ReadModel, group []flashsale.CartItem) {
	maxQty := money.ZeroQty()
	if sale.Benefit.MaxQty != nil {
		maxQty = p.Conversion.ToBase(*sale.Benefit.MaxQty, sale.Benefit.MaxUomType)
	}
	quota := flashsale.ResolveQuota(sale, group, p.ID, maxQty, p.Conversion)
	p.flashSale = &ProductFlashSale{Sale: sale, Quota: quota}
}

// Promotion exposes the product's promotion state.
func (p *Product) Promotion() *ProductPromotion {
	return p.promotion
}

// FlashSale exposes the attached flash sale, nil when none applies.
func (p *Product) FlashSale() *ProductFlashSale {
	return p.flashSale
}

// scaleCompatible checks every scale, cap, and free-product UOM the promotion
// references against the product's ladder.
func (p *Product) scaleCompatible(pr promo.PromotionReadModel) bool {
	for _, c := range pr.Conditions {
		if !p.Conversion.HasTier(nonEmptyTier(c.MinQtyUomType)) {
			return false
		}
		for _, b := range c.Benefit.Discounts {
			if !p.Conversion.HasTier(nonEmptyTier(b.ScaleUomType)) {
				return false
			}
		}
		for _, b := range c.Benefit.Coins {
			if !p.Conversion.HasTier(nonEmptyTier(b.ScaleUomType)) {
				return false
			}
		}
		if c.Benefit.MaxQty != nil && !p.Conversion.HasTier(nonEmptyTier(c.Benefit.MaxUomType)) {
			return false
		}
		if fp := c.Benefit.FreeProduct; fp != nil && !p.Conversion.HasTier(nonEmptyTier(fp.ScaleUomType)) {
			return false
		}
	}
	return true
}

func nonEmptyTier(t uom.Type) uom.Type {
	if !t.Valid() {
		return uom.Base
	}
	return t
}

// ProductPromotion owns the promotions bound to one product instance.
type ProductPromotion struct {
	conv       uom.Conversion
	promotions []promo.PromotionReadModel
}

// Promotions returns the bound promotions with benefit-less entries filtered
// out.
func (pp *ProductPromotion) Promotions() []promo.PromotionReadModel {
	out := make([]promo.PromotionReadModel, 0, len(pp.promotions))
	for _, p := range pp.promotions {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// MergedPromotions folds compatible promotions into single presented offers,
// ordered by ascending priority.
func (pp *ProductPromotion) MergedPromotions() []promo.PromotionReadModel {
	promos := pp.Promotions()
	sortByPriority(promos)
	return promo.MergePromotions(promos)
}

// ProductFlashSale pairs a flash sale with this product's quota share.
type ProductFlashSale struct {
	Sale  flashsale.ReadModel
	Quota flashsale.QuotaResult
}
