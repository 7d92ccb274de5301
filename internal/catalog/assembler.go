package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/flashsale"
	"github.com/noah-isme/backend-grosir/internal/obs"
	"github.com/noah-isme/backend-grosir/internal/pricing"
	"github.com/noah-isme/backend-grosir/internal/promo"
	"github.com/noah-isme/backend-grosir/internal/repo"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

type queryProvider interface {
	ListProducts(ctx context.Context, salesOffice string) ([]repo.ProductRow, error)
	ListUomLadders(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]uom.Ladder, error)
	ListPriceTiers(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]pricing.TierRow, error)
	ListPromotions(ctx context.Context, itemIDs []uuid.UUID, tags []string, now time.Time) ([]repo.PromotionRecord, error)
	ListFlashSales(ctx context.Context, itemIDs []uuid.UUID, tags []string, buyerID uuid.UUID, now time.Time) ([]flashsale.ReadModel, error)
	ListDivisions(ctx context.Context, buyerID uuid.UUID) ([]promo.Division, error)
}

// BuyerContext identifies the buyer a price aggregation runs for.
type BuyerContext struct {
	BuyerID          uuid.UUID
	Organization     string
	SalesOffice      string
	RetailRestricted bool
}

// Assembler loads catalog, promotion, and flash-sale rows and builds the
// per-product pricing read models. One Assembler serves both the catalog
// listing (no cart) and cart pricing (cart lines attached).
type Assembler struct {
	queries queryProvider
	now     func() time.Time
}

// NewAssembler constructs an Assembler. now defaults to time.Now.
func NewAssembler(queries queryProvider, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{queries: queries, now: now}
}

// Build assembles pricing read models for every sellable product in the
// buyer's sales office. lines may be nil for catalog views; when present,
// each product carries its cart quantity in base units and flash-sale quota
// is split across the cart.
func (a *Assembler) Build(ctx context.Context, buyer BuyerContext, lines []repo.CartLine) ([]*pricing.Product, error) {
	now := a.now()

	rows, err := a.queries.ListProducts(ctx, buyer.SalesOffice)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	statusByID := make(map[uuid.UUID]promo.ItemStatus, len(rows))
	for _, row := range rows {
		statusByID[row.ID] = row.Status
	}
	lookup := func(itemID uuid.UUID) (promo.ItemStatus, bool) {
		status, ok := statusByID[itemID]
		return status, ok
	}

	sellable := rows[:0]
	ids := make([]uuid.UUID, 0, len(rows))
	tags := make([]string, 0, len(rows))
	seenTags := make(map[string]struct{})
	for _, row := range rows {
		if !row.Status.Sellable(buyer.RetailRestricted) {
			continue
		}
		sellable = append(sellable, row)
		ids = append(ids, row.ID)
		if _, ok := seenTags[row.Tag]; !ok && row.Tag != "" {
			seenTags[row.Tag] = struct{}{}
			tags = append(tags, row.Tag)
		}
	}
	if len(sellable) == 0 {
		return nil, nil
	}

	ladders, err := a.queries.ListUomLadders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load uom ladders: %w", err)
	}
	priceTiers, err := a.queries.ListPriceTiers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load price tiers: %w", err)
	}
	divisions, err := a.queries.ListDivisions(ctx, buyer.BuyerID)
	if err != nil {
		return nil, fmt.Errorf("load buyer divisions: %w", err)
	}
	identity := promo.Identity{Organization: buyer.Organization, Divisions: divisions}

	records, err := a.queries.ListPromotions(ctx, ids, tags, now)
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}
	sales, err := a.queries.ListFlashSales(ctx, ids, tags, buyer.BuyerID, now)
	if err != nil {
		return nil, fmt.Errorf("load flash sales: %w", err)
	}

	lineByItem := make(map[uuid.UUID]repo.CartLine, len(lines))
	for _, line := range lines {
		lineByItem[line.ItemID] = line
	}

	products := make([]*pricing.Product, 0, len(sellable))
	for _, row := range sellable {
		listed, ok := pricing.EffectiveValue(priceTiers[row.ID], now)
		if !ok {
			continue
		}
		product := pricing.NewProduct(row.ID, row.Name, row.Tag, row.BaseUom, ladders[row.ID], listed)
		if line, ok := lineByItem[row.ID]; ok {
			qtyBase := product.Conversion.ToBase(line.Qty, line.UomType)
			product.SetCartLine(qtyBase, line.AddedAt)
		}
		products = append(products, product)
	}

	a.applyPromotions(products, records, identity, lookup, buyer.RetailRestricted, now)
	a.applyFlashSales(products, sales, now)
	return products, nil
}

func (a *Assembler) applyPromotions(products []*pricing.Product, records []repo.PromotionRecord, identity promo.Identity, lookup promo.StatusLookup, retailRestricted bool, now time.Time) {
	for _, rec := range records {
		eligible := promo.EligibleTargets(rec.TargetRows, identity, now)
		if len(eligible) == 0 {
			countEvaluated(rec.Def.Kind, "ineligible")
			continue
		}
		if rec.Def.HasTagCriteria() {
			if !bundleSellable(rec.Def, lookup, retailRestricted) {
				countEvaluated(rec.Def.Kind, "bundle_rejected")
				continue
			}
		}
		applied := false
		for _, product := range products {
			matching := eligible[:0:0]
			for _, row := range eligible {
				if row.Target.MatchesItem(product.ID.String(), product.Tag) {
					matching = append(matching, row)
				}
			}
			best, ok := promo.BestTarget(matching)
			if !ok {
				continue
			}
			def := rec.Def
			def.Target = best.Target
			if rec.IsLifetime {
				product.ApplyLifetimePromotion(def)
			} else {
				product.ApplyPromotion(def)
			}
			applied = true
		}
		if applied {
			countEvaluated(rec.Def.Kind, "applied")
		} else {
			countEvaluated(rec.Def.Kind, "unmatched")
		}
	}
}

func bundleSellable(def promo.PromotionReadModel, lookup promo.StatusLookup, retailRestricted bool) bool {
	for _, cond := range def.Conditions {
		if cond.TagCriteria == nil {
			continue
		}
		if _, ok := promo.ValidateTagCriteria(*cond.TagCriteria, lookup, retailRestricted); !ok {
			return false
		}
	}
	return true
}

func (a *Assembler) applyFlashSales(products []*pricing.Product, sales []flashsale.ReadModel, now time.Time) {
	for _, sale := range sales {
		if !sale.Active(now) {
			continue
		}
		group := make([]flashsale.CartItem, 0)
		members := make([]*pricing.Product, 0)
		for _, product := range products {
			if !sale.Target.MatchesItem(product.ID.String(), product.Tag) {
				continue
			}
			members = append(members, product)
			group = append(group, flashsale.CartItem{
				ItemID:  product.ID,
				Qty:     product.CartQty(),
				AddedAt: product.CartAddedAt(),
			})
		}
		for _, product := range members {
			product.ApplyFlashSale(sale, group)
			result := "skipped"
			if fs := product.FlashSale(); fs != nil && fs.Quota.IsApplied {
				result = "applied"
			}
			countQuota(result)
		}
	}
}

func countEvaluated(kind promo.Kind, result string) {
	if obs.PromotionsEvaluatedTotal != nil {
		obs.PromotionsEvaluatedTotal.WithLabelValues(string(kind), result).Inc()
	}
}

func countQuota(result string) {
	if obs.FlashSaleQuotaTotal != nil {
		obs.FlashSaleQuotaTotal.WithLabelValues(result).Inc()
	}
}
