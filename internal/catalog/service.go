package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/common"
	"github.com/noah-isme/backend-grosir/internal/obs"
	"github.com/noah-isme/backend-grosir/internal/pricing"
)

// Service orchestrates catalog price aggregation and caching.
type Service struct {
	assembler    *Assembler
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Assembler    *Assembler
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Assembler == nil {
		return nil, errors.New("catalog: assembler is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		assembler:    cfg.Assembler,
		cache:        cfg.Cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// PricedListResult contains priced catalog entries and pagination metadata.
type PricedListResult struct {
	Items []pricing.Quote
	Total int
	Page  int
	Limit int
}

// ListPricedProducts returns the buyer's catalog with every product fully
// priced: effective list price, merged promotions, and flash-sale views with
// no cart context.
func (s *Service) ListPricedProducts(ctx context.Context, buyer BuyerContext, page, limit int) (PricedListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	quotes, err := s.pricedCatalog(ctx, buyer)
	if err != nil {
		return PricedListResult{}, err
	}

	total := len(quotes)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return PricedListResult{
		Items: quotes[start:end],
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// GetPricedProduct returns the priced view of a single product, or a not
// found error when the product is absent or not sellable to this buyer.
func (s *Service) GetPricedProduct(ctx context.Context, buyer BuyerContext, productID uuid.UUID) (pricing.Quote, error) {
	quotes, err := s.pricedCatalog(ctx, buyer)
	if err != nil {
		return pricing.Quote{}, err
	}
	for _, quote := range quotes {
		if quote.ProductID == productID {
			return quote, nil
		}
	}
	return pricing.Quote{}, common.NewAppError(common.CodeNotFound, "product not found", http.StatusNotFound, nil)
}

func (s *Service) pricedCatalog(ctx context.Context, buyer BuyerContext) ([]pricing.Quote, error) {
	key := s.catalogCacheKey(buyer)
	var cached []pricing.Quote
	if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
		countCache("hit")
		return cached, nil
	}
	countCache("miss")

	start := time.Now()
	products, err := s.assembler.Build(ctx, buyer, nil)
	if err != nil {
		return nil, fmt.Errorf("assemble catalog: %w", err)
	}
	quotes := make([]pricing.Quote, 0, len(products))
	for _, product := range products {
		quote := product.Quote()
		countMerged(quote)
		quotes = append(quotes, quote)
	}
	if obs.PriceQuoteLatency != nil {
		obs.PriceQuoteLatency.WithLabelValues("catalog").Observe(obs.DurationMillis(time.Since(start)))
	}

	_ = s.cache.SetJSON(ctx, key, quotes)
	return quotes, nil
}

func (s *Service) catalogCacheKey(buyer BuyerContext) string {
	return fmt.Sprintf("catalog:priced:%s:%s:%s", buyer.SalesOffice, buyer.Organization, buyer.BuyerID)
}

func countMerged(quote pricing.Quote) {
	if obs.PromotionsMergedTotal == nil {
		return
	}
	for _, view := range quote.Promotions {
		if len(view.PromotionIDs) > 1 {
			obs.PromotionsMergedTotal.WithLabelValues("merged").Inc()
		} else {
			obs.PromotionsMergedTotal.WithLabelValues("separate").Inc()
		}
	}
}

func countCache(result string) {
	if obs.CatalogCacheTotal != nil {
		obs.CatalogCacheTotal.WithLabelValues(result).Inc()
	}
}

func badRequest(field, message string, err error) *common.AppError {
	return common.NewAppError(common.CodeBadRequest, fmt.Sprintf("%s: %s", field, message), http.StatusBadRequest, err)
}
