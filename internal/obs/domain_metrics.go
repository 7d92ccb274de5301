package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PromotionsEvaluatedTotal counts promotion read models considered per evaluation outcome.
	PromotionsEvaluatedTotal *prometheus.CounterVec
	// PromotionsMergedTotal counts combine attempts by result.
	PromotionsMergedTotal *prometheus.CounterVec
	// FlashSaleQuotaTotal counts flash sale quota resolutions by outcome.
	FlashSaleQuotaTotal *prometheus.CounterVec
	// PriceQuoteLatency records full catalog price aggregation latency in milliseconds.
	PriceQuoteLatency *prometheus.HistogramVec
	// CatalogCacheTotal counts read-model cache lookups per result.
	CatalogCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PromotionsEvaluatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_evaluated_total",
			Help:      "Count of promotion definitions evaluated by outcome.",
		}, []string{"kind", "result"})
		PromotionsMergedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_merged_total",
			Help:      "Count of promotion combine attempts by result.",
		}, []string{"result"})
		FlashSaleQuotaTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flash_sale_quota_total",
			Help:      "Count of flash sale quota resolutions by outcome.",
		}, []string{"result"})
		PriceQuoteLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "price_quote_duration_ms",
			Help:      "Latency of full price aggregation per request in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"surface"})
		CatalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Count of catalog read-model cache lookups by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, PromotionsEvaluatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PromotionsEvaluatedTotal = v
			}
		})
		mustRegisterCollector(reg, PromotionsMergedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PromotionsMergedTotal = v
			}
		})
		mustRegisterCollector(reg, FlashSaleQuotaTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				FlashSaleQuotaTotal = v
			}
		})
		mustRegisterCollector(reg, PriceQuoteLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				PriceQuoteLatency = v
			}
		})
		mustRegisterCollector(reg, CatalogCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogCacheTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
