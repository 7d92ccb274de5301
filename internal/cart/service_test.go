package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-grosir/internal/cart"
	"github.com/noah-isme/backend-grosir/internal/catalog"
	"github.com/noah-isme/backend-grosir/internal/flashsale"
	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/pricing"
	"github.com/noah-isme/backend-grosir/internal/promo"
	"github.com/noah-isme/backend-grosir/internal/repo"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

var (
	itemA   = uuid.MustParse("5d1f0000-aaaa-4a2b-9c3d-000000000001")
	itemB   = uuid.MustParse("5d1f0000-bbbb-4a2b-9c3d-000000000002")
	buyerID = uuid.MustParse("5d1f0000-cccc-4a2b-9c3d-000000000003")
	cartID  = uuid.MustParse("5d1f0000-dddd-4a2b-9c3d-000000000004")
	fixedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

type fakeStore struct {
	lines  []repo.CartLine
	sales  []flashsale.ReadModel
	promos []repo.PromotionRecord
}

func (f *fakeStore) ListCartLines(_ context.Context, _ uuid.UUID) ([]repo.CartLine, error) {
	return f.lines, nil
}

func (f *fakeStore) ListProducts(_ context.Context, _ string) ([]repo.ProductRow, error) {
	status := promo.ItemStatus{Active: true, HasPrice: true, HasSalesConfig: true}
	return []repo.ProductRow{
		{ID: itemA, Name: "Minyak Goreng 1L", Tag: "dry-oil", BaseUom: "PCS", Status: status},
		{ID: itemB, Name: "Minyak Goreng 2L", Tag: "dry-oil", BaseUom: "PCS", Status: status},
	}, nil
}

func (f *fakeStore) ListUomLadders(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]uom.Ladder, error) {
	return map[uuid.UUID]uom.Ladder{}, nil
}

func (f *fakeStore) ListPriceTiers(_ context.Context, _ []uuid.UUID) (map[uuid.UUID][]pricing.TierRow, error) {
	window := pricing.TierRow{Tier: 1, Value: money.MoneyFromInt(20000), ValidFrom: fixedAt.Add(-time.Hour), ValidTo: fixedAt.Add(time.Hour)}
	return map[uuid.UUID][]pricing.TierRow{itemA: {window}, itemB: {window}}, nil
}

func (f *fakeStore) ListPromotions(_ context.Context, _ []uuid.UUID, _ []string, _ time.Time) ([]repo.PromotionRecord, error) {
	return f.promos, nil
}

func (f *fakeStore) ListFlashSales(_ context.Context, _ []uuid.UUID, _ []string, _ uuid.UUID, _ time.Time) ([]flashsale.ReadModel, error) {
	return f.sales, nil
}

func (f *fakeStore) ListDivisions(_ context.Context, _ uuid.UUID) ([]promo.Division, error) {
	return []promo.Division{{Code: "dry"}}, nil
}

func halfOffTagSale(maxQty int64) flashsale.ReadModel {
	capQty := money.QtyFromInt(maxQty)
	return flashsale.ReadModel{
		ID:       uuid.MustParse("5d1f0000-eeee-4a2b-9c3d-000000000005"),
		StartAt:  fixedAt.Add(-time.Hour),
		EndAt:    fixedAt.Add(time.Hour),
		Target:   promo.Target{ItemID: promo.Wildcard, Tag: "dry-oil", Priority: 1},
		Criteria: flashsale.Criteria{MinQty: money.QtyFromInt(1), MinQtyUomType: uom.Base},
		Benefit: promo.PromotionBenefit{
			Discounts: []promo.Benefit{{
				Type:         promo.BenefitPercentage,
				Percentage:   money.PercentFromInt(50),
				ScaleUomType: uom.Base,
			}},
			MaxQty:     &capQty,
			MaxUomType: uom.Base,
		},
	}
}

func lifetimeMarkdown(amount int64) repo.PromotionRecord {
	return repo.PromotionRecord{
		Def: promo.PromotionReadModel{
			ID:       uuid.MustParse("5d1f0000-ffff-4a2b-9c3d-000000000006"),
			Kind:     promo.KindDirect,
			Priority: 1,
			Conditions: []promo.Condition{{
				MinQty:        money.OneQty(),
				MinQtyUomType: uom.Base,
				Benefit: promo.PromotionBenefit{Discounts: []promo.Benefit{{
					Type:         promo.BenefitAmount,
					Amount:       money.MoneyFromInt(amount),
					ScaleUomType: uom.Base,
				}}},
			}},
		},
		TargetRows: []promo.TargetRow{{
			Target: promo.Target{ItemID: promo.Wildcard, Tag: "dry-oil", Priority: 1},
			Scope: promo.Scope{
				Organization: promo.Wildcard,
				PeriodFrom:   fixedAt.Add(-time.Hour),
				PeriodTo:     fixedAt.Add(time.Hour),
			},
		}},
		IsLifetime: true,
	}
}

func newHandler(store *fakeStore) *cart.Handler {
	assembler := catalog.NewAssembler(store, func() time.Time { return fixedAt })
	return cart.NewHandler(&cart.Service{Lines: store, Assembler: assembler})
}

func priceRequest(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts/"+cartID.String()+"/price", nil)
	req.Header.Set("X-Buyer-ID", buyerID.String())
	req.Header.Set("X-Sales-Office", "JKT01")
	rc := chi.NewRouteContext()
	rc.URLParams.Add("cartID", cartID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

type pricedResponse struct {
	Data cart.PricedCart `json:"data"`
}

func TestPriceCartSplitsFlashSaleQuota(t *testing.T) {
	store := &fakeStore{
		lines: []repo.CartLine{
			{ItemID: itemA, Qty: money.QtyFromInt(6), UomType: uom.Base, AddedAt: fixedAt.Add(-10 * time.Minute)},
			{ItemID: itemB, Qty: money.QtyFromInt(7), UomType: uom.Base, AddedAt: fixedAt.Add(-5 * time.Minute)},
		},
		sales: []flashsale.ReadModel{halfOffTagSale(10)},
	}
	handler := newHandler(store)

	rec := httptest.NewRecorder()
	handler.Price(rec, priceRequest(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pricedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Lines, 2)

	byItem := map[uuid.UUID]cart.PricedLine{}
	for _, line := range resp.Data.Lines {
		byItem[line.ItemID] = line
	}

	first := byItem[itemA].Quote.FlashSale
	require.NotNil(t, first)
	require.True(t, first.IsApplied)
	require.True(t, first.DiscountableQty.Equal(money.QtyFromInt(6)), "got %s", first.DiscountableQty)

	second := byItem[itemB].Quote.FlashSale
	require.NotNil(t, second)
	require.True(t, second.IsApplied)
	require.True(t, second.DiscountableQty.Equal(money.QtyFromInt(4)), "got %s", second.DiscountableQty)
}

func TestPriceCartTotals(t *testing.T) {
	store := &fakeStore{
		lines: []repo.CartLine{
			{ItemID: itemA, Qty: money.QtyFromInt(2), UomType: uom.Base, AddedAt: fixedAt.Add(-time.Minute)},
		},
	}
	handler := newHandler(store)

	rec := httptest.NewRecorder()
	handler.Price(rec, priceRequest(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pricedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.Subtotal.Equal(money.MoneyFromInt(40000)), "got %s", resp.Data.Subtotal)
	require.True(t, resp.Data.Total.Equal(money.MoneyFromInt(40000)))
	require.True(t, resp.Data.TotalDiscount.IsZero())
}

func TestPriceCartTotalsIncludeLifetimeDiscount(t *testing.T) {
	store := &fakeStore{
		lines: []repo.CartLine{
			{ItemID: itemA, Qty: money.QtyFromInt(2), UomType: uom.Base, AddedAt: fixedAt.Add(-time.Minute)},
		},
		promos: []repo.PromotionRecord{lifetimeMarkdown(2000)},
	}
	handler := newHandler(store)

	rec := httptest.NewRecorder()
	handler.Price(rec, priceRequest(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pricedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Listed 20000, lifetime markdown 2000, two units: the 4000 lifetime
	// discount must show up in TotalDiscount so the payload arithmetic closes.
	require.True(t, resp.Data.Subtotal.Equal(money.MoneyFromInt(40000)), "got %s", resp.Data.Subtotal)
	require.True(t, resp.Data.Total.Equal(money.MoneyFromInt(36000)), "got %s", resp.Data.Total)
	require.True(t, resp.Data.TotalDiscount.Equal(money.MoneyFromInt(4000)), "got %s", resp.Data.TotalDiscount)
	require.True(t, resp.Data.Subtotal.Sub(resp.Data.TotalDiscount).Equal(resp.Data.Total))
}

func TestPriceCartEmptyIsNotFound(t *testing.T) {
	handler := newHandler(&fakeStore{})

	rec := httptest.NewRecorder()
	handler.Price(rec, priceRequest(t))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
