package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/catalog"
	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/obs"
	"github.com/noah-isme/backend-grosir/internal/pricing"
	"github.com/noah-isme/backend-grosir/internal/repo"
)

// ErrNotFound indicates the requested cart has no lines.
var ErrNotFound = errors.New("cart not found")

type lineProvider interface {
	ListCartLines(ctx context.Context, cartID uuid.UUID) ([]repo.CartLine, error)
}

// Service prices a stored cart: every line gets its promotion-resolved price
// and flash-sale quota split computed against the rest of the cart.
type Service struct {
	Lines     lineProvider
	Assembler *catalog.Assembler
}

// PricedLine is one cart line with its resolved quote.
type PricedLine struct {
	ItemID  uuid.UUID      `json:"itemId"`
	Qty     money.Quantity `json:"qty"`
	AddedAt time.Time      `json:"addedAt"`
	Quote   pricing.Quote  `json:"quote"`
}

// PricedCart is the cart pricing response payload.
type PricedCart struct {
	CartID        uuid.UUID    `json:"cartId"`
	Lines         []PricedLine `json:"lines"`
	Subtotal      money.Money  `json:"subtotal"`
	TotalDiscount money.Money  `json:"totalDiscount"`
	TotalCoin     money.Money  `json:"totalCoin"`
	Total         money.Money  `json:"total"`
}

// PriceCart loads the cart lines and produces a fully priced cart for the
// buyer. Line totals use the final per-base-unit price times the base-unit
// quantity.
func (s *Service) PriceCart(ctx context.Context, buyer catalog.BuyerContext, cartID uuid.UUID) (PricedCart, error) {
	if s == nil || s.Lines == nil || s.Assembler == nil {
		return PricedCart{}, errors.New("cart service not configured")
	}
	lines, err := s.Lines.ListCartLines(ctx, cartID)
	if err != nil {
		return PricedCart{}, fmt.Errorf("load cart lines: %w", err)
	}
	if len(lines) == 0 {
		return PricedCart{}, ErrNotFound
	}

	start := time.Now()
	products, err := s.Assembler.Build(ctx, buyer, lines)
	if err != nil {
		return PricedCart{}, fmt.Errorf("assemble cart pricing: %w", err)
	}
	byID := make(map[uuid.UUID]*pricing.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	result := PricedCart{
		CartID:        cartID,
		Subtotal:      money.ZeroMoney(),
		TotalDiscount: money.ZeroMoney(),
		TotalCoin:     money.ZeroMoney(),
		Total:         money.ZeroMoney(),
	}
	for _, line := range lines {
		product, ok := byID[line.ItemID]
		if !ok {
			// line refers to an item no longer sellable in this office
			continue
		}
		quote := product.Quote()
		qtyBase := product.CartQty()
		result.Lines = append(result.Lines, PricedLine{
			ItemID:  line.ItemID,
			Qty:     qtyBase,
			AddedAt: line.AddedAt,
			Quote:   quote,
		})
		// Discount against the listed price so lifetime markdowns count too
		// and Subtotal - TotalDiscount stays equal to Total.
		lineDiscount := product.ListedPrice.SubClamped(quote.FinalPrice)
		result.Subtotal = result.Subtotal.Add(product.ListedPrice.MulQty(qtyBase))
		result.TotalDiscount = result.TotalDiscount.Add(lineDiscount.MulQty(qtyBase))
		result.TotalCoin = result.TotalCoin.Add(quote.CoinPerUnit.MulQty(qtyBase))
		result.Total = result.Total.Add(quote.FinalPrice.MulQty(qtyBase))
	}
	if obs.PriceQuoteLatency != nil {
		obs.PriceQuoteLatency.WithLabelValues("cart").Observe(obs.DurationMillis(time.Since(start)))
	}
	return result, nil
}
