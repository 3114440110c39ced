// Package metrics holds the Prometheus collectors for the recommender and its HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes.
const (
	OutcomeMatched = "matched"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Pipeline records per-query metrics. A nil *Pipeline records nothing.
type Pipeline struct {
	queries  *prometheus.CounterVec
	duration prometheus.Histogram
	cache    *prometheus.CounterVec
	catalog  prometheus.Gauge
}

// NewPipeline creates the pipeline collectors and registers them with reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	f := promauto.With(reg)
	return &Pipeline{
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "queries_total",
			Help:      "Recommendation queries by outcome",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "showfinder",
			Name:      "query_duration_seconds",
			Help:      "Time to answer one recommendation query",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "cache_requests_total",
			Help:      "Result cache lookups by result",
		}, []string{"result"}),
		catalog: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "showfinder",
			Name:      "catalog_entries",
			Help:      "Entries in the loaded catalog",
		}),
	}
}

// ObserveQuery records one finished query.
func (p *Pipeline) ObserveQuery(outcome string, d time.Duration) {
	if p == nil {
		return
	}
	p.queries.WithLabelValues(outcome).Inc()
	p.duration.Observe(d.Seconds())
}

// ObserveCache records one cache lookup.
func (p *Pipeline) ObserveCache(result string) {
	if p == nil {
		return
	}
	p.cache.WithLabelValues(result).Inc()
}

// SetCatalogSize records the catalog size.
func (p *Pipeline) SetCatalogSize(n int) {
	if p == nil {
		return
	}
	p.catalog.Set(float64(n))
}
