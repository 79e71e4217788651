// Package metrics exposes engine instrumentation counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationsTotal counts calculate invocations by outcome
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "genquote",
		Name:      "calculations_total",
		Help:      "Pricing calculations by outcome (success, validation_error, error).",
	}, []string{"outcome"})

	// CalculationDuration observes calculation latency
	CalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "genquote",
		Name:      "calculation_duration_seconds",
		Help:      "Pricing calculation duration.",
		Buckets:   prometheus.DefBuckets,
	})

	// CacheHits counts result cache hits
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "genquote",
		Name:      "cache_hits_total",
		Help:      "Result cache hits.",
	})

	// CacheMisses counts result cache misses
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "genquote",
		Name:      "cache_misses_total",
		Help:      "Result cache misses.",
	})

	// CacheEvictions counts evicted cache entries
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "genquote",
		Name:      "cache_evictions_total",
		Help:      "Result cache evictions (LRU and TTL).",
	})

	// ProviderFallbacks counts provider failures recovered with defaults
	ProviderFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "genquote",
		Name:      "provider_fallbacks_total",
		Help:      "External provider failures recovered with default values.",
	}, []string{"provider"})
)
