package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/promo"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// Queries bundles the hand-written pgx queries feeding the pricing engine.
// The engine itself never touches the database; everything it needs is
// loaded here, once per request.
type Queries struct {
	DB *pgxpool.Pool
}

// PromotionRecord is one promotion definition together with its target rows.
// Target rows still need eligibility filtering against the buyer identity.
type PromotionRecord struct {
	Def        promo.PromotionReadModel
	TargetRows []promo.TargetRow
	IsLifetime bool
}

const promotionColumns = `
	p.id, p.kind, p.priority, p.external_id, p.external_type, p.is_regular, p.is_lifetime
`

// ListPromotions loads TPR, strata, and direct promotion definitions whose
// targets reference any of the given items or tags and whose period overlaps
// now. Scope filtering against the buyer happens in the eligibility matcher.
func (q *Queries) ListPromotions(ctx context.Context, itemIDs []uuid.UUID, tags []string, now time.Time) ([]PromotionRecord, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT DISTINCT `+promotionColumns+`
		FROM promotions p
		JOIN promotion_targets t ON t.promotion_id = p.id
		WHERE (t.item_id = ANY($1) OR t.item_id = '*')
		  AND (t.tag = ANY($2) OR t.tag = '*')
		  AND t.period_from <= $3 AND t.period_to >= $3
	`, uuidStrings(itemIDs), tags, now)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	records := make([]PromotionRecord, 0)
	for rows.Next() {
		rec, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotions: %w", err)
	}
	for i := range records {
		if err := q.loadPromotionDetails(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func scanPromotion(rows pgx.Rows) (PromotionRecord, error) {
	var (
		rec        PromotionRecord
		id         pgtype.UUID
		kind       string
		extID      pgtype.Text
		extType    pgtype.Text
		isLifetime bool
	)
	if err := rows.Scan(&id, &kind, &rec.Def.Priority, &extID, &extType, &rec.Def.IsRegular, &isLifetime); err != nil {
		return rec, fmt.Errorf("scan promotion: %w", err)
	}
	rec.Def.ID = uuidValue(id)
	rec.Def.Kind = promo.Kind(kind)
	rec.Def.ExternalID = extID.String
	rec.Def.ExternalType = extType.String
	rec.IsLifetime = isLifetime
	return rec, nil
}

func (q *Queries) loadPromotionDetails(ctx context.Context, rec *PromotionRecord) error {
	targets, err := q.listTargetRows(ctx, rec.Def.ID)
	if err != nil {
		return err
	}
	rec.TargetRows = targets
	free, err := q.freeProduct(ctx, rec.Def.ID)
	if err != nil {
		return err
	}
	criteria, err := q.tagCriteria(ctx, rec.Def.ID)
	if err != nil {
		return err
	}
	conds, err := q.listConditions(ctx, rec.Def.ID, free, criteria)
	if err != nil {
		return err
	}
	rec.Def.Conditions = conds
	return nil
}

func (q *Queries) freeProduct(ctx context.Context, promotionID uuid.UUID) (*promo.FreeProduct, error) {
	var (
		fp       promo.FreeProduct
		qty      pgtype.Numeric
		scaleQty pgtype.Numeric
	)
	err := q.DB.QueryRow(ctx, `
		SELECT f.item_id, f.name, f.benefit_qty, f.benefit_uom,
		       f.scale_qty, f.scale_uom_type
		FROM promotion_free_products f
		WHERE f.promotion_id = $1
	`, promotionID).Scan(&fp.ItemID, &fp.Name, &qty, &fp.BenefitUom, &scaleQty, &fp.ScaleUomType)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query free product: %w", err)
	}
	fp.BenefitQty = money.NewQuantity(numericDecimal(qty))
	fp.ScaleQty = money.NewQuantity(numericDecimal(scaleQty))
	return &fp, nil
}

func (q *Queries) tagCriteria(ctx context.Context, promotionID uuid.UUID) (*promo.TagCriteria, error) {
	var (
		tc     promo.TagCriteria
		minQty pgtype.Numeric
		incQty pgtype.Numeric
	)
	err := q.DB.QueryRow(ctx, `
		SELECT c.item_min_qty, c.item_min_uom_type, c.min_item_combination,
		       c.is_ratio_based, c.included_tag, c.included_tag_min_qty,
		       c.included_tag_min_uom_type
		FROM promotion_tag_criteria c
		WHERE c.promotion_id = $1
	`, promotionID).Scan(
		&minQty, &tc.ItemMinUomType, &tc.MinItemCombination,
		&tc.IsRatioBased, &tc.IncludedTag, &incQty, &tc.IncludedTagMinUomType,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query tag criteria: %w", err)
	}
	tc.ItemMinQty = money.NewQuantity(numericDecimal(minQty))
	tc.IncludedTagMinQty = money.NewQuantity(numericDecimal(incQty))

	rows, err := q.DB.Query(ctx, `
		SELECT i.item_id, i.name, i.uom
		FROM promotion_tag_criteria_items i
		WHERE i.promotion_id = $1
	`, promotionID)
	if err != nil {
		return nil, fmt.Errorf("query tag criteria items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item promo.TagCriteriaItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Uom); err != nil {
			return nil, fmt.Errorf("scan tag criteria item: %w", err)
		}
		tc.Items = append(tc.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &tc, nil
}

func (q *Queries) listTargetRows(ctx context.Context, promotionID uuid.UUID) ([]promo.TargetRow, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT t.item_id, t.tag, t.priority, t.organization,
		       t.sales_org, t.dist_channel, t.sales_office, t.sales_group,
		       t.buyer_group, t.buyer_external_id, t.hierarchy,
		       t.period_from, t.period_to
		FROM promotion_targets t
		WHERE t.promotion_id = $1
	`, promotionID)
	if err != nil {
		return nil, fmt.Errorf("query promotion targets: %w", err)
	}
	defer rows.Close()

	out := make([]promo.TargetRow, 0)
	for rows.Next() {
		var (
			row promo.TargetRow
			org pgtype.Text
		)
		if err := rows.Scan(
			&row.Target.ItemID, &row.Target.Tag, &row.Target.Priority, &org,
			&row.Scope.SalesOrg, &row.Scope.DistChannel, &row.Scope.SalesOffice, &row.Scope.SalesGroup,
			&row.Scope.Group, &row.Scope.BuyerExternalID, &row.Scope.Hierarchy,
			&row.Scope.PeriodFrom, &row.Scope.PeriodTo,
		); err != nil {
			return nil, fmt.Errorf("scan promotion target: %w", err)
		}
		row.Scope.Organization = org.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func (q *Queries) listConditions(ctx context.Context, promotionID uuid.UUID, free *promo.FreeProduct, criteria *promo.TagCriteria) ([]promo.Condition, error) {
	rows, err := q.DB.Query(ctx, `
		SELECT c.min_qty, c.min_qty_uom_type, c.min_amount,
		       c.benefit_type, c.benefit_value, c.coin_type, c.coin_value,
		       c.max_qty, c.max_uom_type, c.scale_qty, c.scale_uom_type
		FROM promotion_conditions c
		WHERE c.promotion_id = $1
		ORDER BY c.min_qty, c.min_amount
	`, promotionID)
	if err != nil {
		return nil, fmt.Errorf("query promotion conditions: %w", err)
	}
	defer rows.Close()

	out := make([]promo.Condition, 0)
	for rows.Next() {
		var (
			cond                     promo.Condition
			minQty, minAmount        pgtype.Numeric
			minQtyUom, benefitType   pgtype.Text
			benefitValue, coinValue  pgtype.Numeric
			coinType                 pgtype.Text
			maxQty, scaleQty         pgtype.Numeric
			maxUomType, scaleUomType pgtype.Text
		)
		if err := rows.Scan(
			&minQty, &minQtyUom, &minAmount,
			&benefitType, &benefitValue, &coinType, &coinValue,
			&maxQty, &maxUomType, &scaleQty, &scaleUomType,
		); err != nil {
			return nil, fmt.Errorf("scan promotion condition: %w", err)
		}
		cond.MinQty = money.NewQuantity(numericDecimal(minQty))
		cond.MinQtyUomType = uom.Type(minQtyUom.String)
		cond.MinAmount = money.NewMoney(numericDecimal(minAmount))

		def := promo.BenefitDefinition{
			Type:       promo.BenefitType(benefitType.String),
			Value:      numericDecimal(benefitValue),
			CoinType:   promo.BenefitType(coinType.String),
			CoinValue:  numericDecimal(coinValue),
			MaxUomType: uom.Type(maxUomType.String),
		}
		if maxQty.Valid {
			capQty := money.NewQuantity(numericDecimal(maxQty))
			def.MaxQty = &capQty
		}
		scale := promo.Scale{
			Qty:     money.NewQuantity(numericDecimal(scaleQty)),
			UomType: uom.Type(scaleUomType.String),
		}
		if scale.Qty.IsZero() {
			scale.Qty = money.OneQty()
		}
		cond.Benefit = promo.ResolveBenefit(def, scale, free)
		cond.TagCriteria = criteria
		out = append(out, cond)
	}
	return out, rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func uuidValue(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

func numericDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
