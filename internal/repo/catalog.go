package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-grosir/internal/flashsale"
	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/pricing"
	"github.com/noah-isme/backend-grosir/internal/promo"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// ProductRow is one sellable catalog item scoped to a sales office.
type ProductRow struct {
	ID      uuid.UUID
	Name    string
	Tag     string
	BaseUom string
	Status  promo.ItemStatus
}

// ListProducts loads catalog rows for the given sales office. Unsellable rows
// are included so bundle validation can inspect their status; callers filter
// on Status.Sellable for the visible listing.
func (q *Queries) ListProducts(ctx context.Context, salesOffice string) ([]ProductRow, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT i.id, i.name, i.tag, i.base_uom,
		       i.active, i.has_price, i.has_sales_config, i.excluded, i.has_retail_config
		FROM catalog_items i
		WHERE i.sales_office = $1
		ORDER BY i.name
	`, salesOffice)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make([]ProductRow, 0)
	for rows.Next() {
		var (
			row ProductRow
			id  pgtype.UUID
		)
		if err := rows.Scan(
			&id, &row.Name, &row.Tag, &row.BaseUom,
			&row.Status.Active, &row.Status.HasPrice, &row.Status.HasSalesConfig,
			&row.Status.Excluded, &row.Status.HasRetailConfig,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		row.ID = uuidValue(id)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListUomLadders loads the UOM ladder of every given item, keyed by item id.
// Items with no conversion rows simply have no entry and trade in their base
// unit only.
func (q *Queries) ListUomLadders(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]uom.Ladder, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT u.item_id, u.tier, u.name, u.pack_qty
		FROM item_uoms u
		WHERE u.item_id = ANY($1)
		ORDER BY u.item_id, u.tier
	`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("query uom ladders: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]uom.Ladder)
	for rows.Next() {
		var (
			id      pgtype.UUID
			level   uom.Level
			packQty pgtype.Numeric
		)
		if err := rows.Scan(&id, &level.Tier, &level.Name, &packQty); err != nil {
			return nil, fmt.Errorf("scan uom level: %w", err)
		}
		level.PackQty = money.NewQuantity(numericDecimal(packQty))
		key := uuidValue(id)
		out[key] = append(out[key], level)
	}
	return out, rows.Err()
}

// ListPriceTiers loads price tier rows per item. Which tier is effective at a
// given instant is decided by the pricing package, not here.
func (q *Queries) ListPriceTiers(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]pricing.TierRow, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT p.item_id, p.tier, p.value, p.valid_from, p.valid_to
		FROM item_price_tiers p
		WHERE p.item_id = ANY($1)
		ORDER BY p.item_id, p.tier
	`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("query price tiers: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]pricing.TierRow)
	for rows.Next() {
		var (
			id    pgtype.UUID
			tier  pricing.TierRow
			value pgtype.Numeric
		)
		if err := rows.Scan(&id, &tier.Tier, &value, &tier.ValidFrom, &tier.ValidTo); err != nil {
			return nil, fmt.Errorf("scan price tier: %w", err)
		}
		tier.Value = money.NewMoney(numericDecimal(value))
		key := uuidValue(id)
		out[key] = append(out[key], tier)
	}
	return out, rows.Err()
}

// ListFlashSales loads flash sales active at now whose targets reference any
// of the given items or tags, together with the buyer's redeemed quantity.
func (q *Queries) ListFlashSales(ctx context.Context, itemIDs []uuid.UUID, tags []string, buyerID uuid.UUID, now time.Time) ([]flashsale.ReadModel, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT f.id, f.external_id, f.start_at, f.end_at,
		       f.item_id, f.tag, f.min_qty, f.min_qty_uom_type,
		       f.benefit_type, f.benefit_value, f.max_qty, f.scale_uom_type,
		       COALESCE(r.redeemed_qty, 0)
		FROM flash_sales f
		LEFT JOIN flash_sale_redemptions r ON r.flash_sale_id = f.id AND r.buyer_id = $3
		WHERE f.start_at <= $4 AND f.end_at > $4
		  AND (f.item_id = ANY($1) OR f.item_id = '*')
		  AND (f.tag = ANY($2) OR f.tag = '*')
	`, uuidStrings(itemIDs), tags, buyerID, now)
	if err != nil {
		return nil, fmt.Errorf("query flash sales: %w", err)
	}
	defer rows.Close()

	out := make([]flashsale.ReadModel, 0)
	for rows.Next() {
		var (
			sale         flashsale.ReadModel
			id           pgtype.UUID
			minQty       pgtype.Numeric
			benefitType  pgtype.Text
			benefitValue pgtype.Numeric
			maxQty       pgtype.Numeric
			scaleUom     pgtype.Text
			redeemed     pgtype.Numeric
		)
		if err := rows.Scan(
			&id, &sale.ExternalID, &sale.StartAt, &sale.EndAt,
			&sale.Target.ItemID, &sale.Target.Tag, &minQty, &sale.Criteria.MinQtyUomType,
			&benefitType, &benefitValue, &maxQty, &scaleUom,
			&redeemed,
		); err != nil {
			return nil, fmt.Errorf("scan flash sale: %w", err)
		}
		sale.ID = uuidValue(id)
		sale.Criteria.MinQty = money.NewQuantity(numericDecimal(minQty))
		sale.RedeemedQty = money.NewQuantity(numericDecimal(redeemed))

		def := promo.BenefitDefinition{
			Type:  promo.BenefitType(benefitType.String),
			Value: numericDecimal(benefitValue),
		}
		if maxQty.Valid {
			capQty := money.NewQuantity(numericDecimal(maxQty))
			def.MaxQty = &capQty
			def.MaxUomType = uom.Type(scaleUom.String)
		}
		scale := promo.Scale{Qty: money.OneQty(), UomType: uom.Type(scaleUom.String)}
		sale.Benefit = promo.ResolveBenefit(def, scale, nil)
		out = append(out, sale)
	}
	return out, rows.Err()
}

// CartLine is one stored cart line. Qty is in the line's own UOM; the cart
// service converts to base units against the item's ladder.
type CartLine struct {
	ItemID  uuid.UUID
	Qty     money.Quantity
	UomType uom.Type
	AddedAt time.Time
}

// ListCartLines loads the buyer's cart lines ordered by insertion time, the
// order flash-sale quota is consumed in.
func (q *Queries) ListCartLines(ctx context.Context, cartID uuid.UUID) ([]CartLine, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT l.item_id, l.qty, l.uom_type, l.added_at
		FROM cart_lines l
		WHERE l.cart_id = $1
		ORDER BY l.added_at, l.item_id
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	out := make([]CartLine, 0)
	for rows.Next() {
		var (
			line CartLine
			id   pgtype.UUID
			qty  pgtype.Numeric
		)
		if err := rows.Scan(&id, &qty, &line.UomType, &line.AddedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		line.ItemID = uuidValue(id)
		line.Qty = money.NewQuantity(numericDecimal(qty))
		out = append(out, line)
	}
	return out, rows.Err()
}

// ListDivisions resolves the buyer's organizational divisions, the identity
// the eligibility matcher runs against.
func (q *Queries) ListDivisions(ctx context.Context, buyerID uuid.UUID) ([]promo.Division, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT d.code, d.sales_org, d.dist_channel, d.sales_office, d.sales_group,
		       d.buyer_group, d.external_id, d.hierarchy
		FROM buyer_divisions d
		WHERE d.buyer_id = $1
	`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("query buyer divisions: %w", err)
	}
	defer rows.Close()

	out := make([]promo.Division, 0)
	for rows.Next() {
		var div promo.Division
		if err := rows.Scan(
			&div.Code, &div.SalesOrg, &div.DistChannel, &div.SalesOffice, &div.SalesGroup,
			&div.Group, &div.BuyerExternalID, &div.Hierarchy,
		); err != nil {
			return nil, fmt.Errorf("scan buyer division: %w", err)
		}
		out = append(out, div)
	}
	return out, rows.Err()
}
