package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the catalog client and store.
type Metrics struct {
	Registry            *prometheus.Registry
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     prometheus.Histogram
	ErrorsTotal         *prometheus.CounterVec
	IDCacheHitsTotal    prometheus.Counter
	IDCacheMissesTotal  prometheus.Counter
	StaleResponsesTotal prometheus.Counter
	CategoryFallbacks   prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total HTTP requests issued against the remote catalog API.",
		},
		[]string{"endpoint"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "HTTP request latency for catalog API requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_errors_total",
			Help: "Total number of catalog fetch errors by type.",
		},
		[]string{"error_type"},
	)
	idCacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_id_cache_hits_total",
			Help: "Total by-id lookups served from the LRU cache.",
		},
	)
	idCacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_id_cache_misses_total",
			Help: "Total by-id lookups that went to the remote API.",
		},
	)
	staleResponses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_stale_responses_total",
			Help: "Total fetch completions discarded because a newer fetch superseded them.",
		},
	)
	categoryFallbacks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_category_fallbacks_total",
			Help: "Total category listings served from cache or derived from loaded products.",
		},
	)

	registry.MustRegister(requests, requestDuration, errorsTotal,
		idCacheHits, idCacheMisses, staleResponses, categoryFallbacks)

	return &Metrics{
		Registry:            registry,
		RequestsTotal:       requests,
		RequestDuration:     requestDuration,
		ErrorsTotal:         errorsTotal,
		IDCacheHitsTotal:    idCacheHits,
		IDCacheMissesTotal:  idCacheMisses,
		StaleResponsesTotal: staleResponses,
		CategoryFallbacks:   categoryFallbacks,
	}
}

// IncRequest increments the requests counter for an endpoint.
func (m *Metrics) IncRequest(endpoint string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncIDCacheHit increments the by-id cache hit counter.
func (m *Metrics) IncIDCacheHit() {
	if m == nil {
		return
	}
	m.IDCacheHitsTotal.Inc()
}

// IncIDCacheMiss increments the by-id cache miss counter.
func (m *Metrics) IncIDCacheMiss() {
	if m == nil {
		return
	}
	m.IDCacheMissesTotal.Inc()
}

// IncStale increments the discarded stale response counter.
func (m *Metrics) IncStale() {
	if m == nil {
		return
	}
	m.StaleResponsesTotal.Inc()
}

// IncCategoryFallback increments the category fallback counter.
func (m *Metrics) IncCategoryFallback() {
	if m == nil {
		return
	}
	m.CategoryFallbacks.Inc()
}
