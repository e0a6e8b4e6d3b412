package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// lookup service.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec // labels: outcome={hit,fresh,not_found}
	LookupDuration prometheus.Histogram

	// Cache metrics.
	CacheOps     *prometheus.CounterVec // labels: op={read,write}, result={hit,miss,ok,error}
	CacheEnabled prometheus.Gauge

	// Upstream metrics.
	CensusRequestDuration prometheus.Histogram
	GeminiRequests        *prometheus.CounterVec   // labels: kind={profile,doppelganger}, outcome={success,error}
	GeminiDuration        *prometheus.HistogramVec // labels: kind={profile,doppelganger}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doppelganger",
			Name:      "lookups_total",
			Help:      "ZIP code lookups by outcome.",
		}, []string{"outcome"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "doppelganger",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of a complete lookup, cache hits included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		CacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doppelganger",
			Name:      "cache_ops_total",
			Help:      "Cache store operations by op and result.",
		}, []string{"op", "result"}),
		CacheEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "doppelganger",
			Name:      "cache_enabled",
			Help:      "1 when the Firestore cache is available, 0 otherwise.",
		}),
		CensusRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "doppelganger",
			Name:      "census_request_duration_seconds",
			Help:      "Census ACS API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GeminiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doppelganger",
			Name:      "gemini_requests_total",
			Help:      "Generative model calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		GeminiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "doppelganger",
			Name:      "gemini_request_duration_seconds",
			Help:      "Generative model request duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind"}),
	}

	prometheus.MustRegister(
		m.LookupsTotal,
		m.LookupDuration,
		m.CacheOps,
		m.CacheEnabled,
		m.CensusRequestDuration,
		m.GeminiRequests,
		m.GeminiDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		LookupsTotal:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "doppelganger", Name: "lookups_total"}, []string{"outcome"}),
		LookupDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "doppelganger", Name: "lookup_duration_seconds"}),
		CacheOps:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "doppelganger", Name: "cache_ops_total"}, []string{"op", "result"}),
		CacheEnabled:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "doppelganger", Name: "cache_enabled"}),
		CensusRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "doppelganger", Name: "census_request_duration_seconds"}),
		GeminiRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "doppelganger", Name: "gemini_requests_total"}, []string{"kind", "outcome"}),
		GeminiDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "doppelganger", Name: "gemini_request_duration_seconds"}, []string{"kind"}),
	}
}
