package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// conditions service.
type Metrics struct {
	FetchRequests *prometheus.CounterVec   // labels: provider, outcome={success,error,refused}
	FetchDuration *prometheus.HistogramVec // labels: provider
	CacheLookups  *prometheus.CounterVec   // labels: provider, result={hit,miss}

	AggregationDuration  prometheus.Histogram
	AggregationsPartial  prometheus.Counter
	AggregationsFallback prometheus.Counter

	ReadingsPersisted prometheus.Counter
	ReadingsPublished prometheus.Counter
	PersistErrors     prometheus.Counter

	ServerRunning prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beach_hui",
			Name:      "provider_requests_total",
			Help:      "Upstream provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beach_hui",
			Name:      "provider_request_duration_seconds",
			Help:      "Upstream provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beach_hui",
			Name:      "cache_lookups_total",
			Help:      "Provider cache lookups by provider and result.",
		}, []string{"provider", "result"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "beach_hui",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of a complete fan-out and merge for one beach.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		AggregationsPartial: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beach_hui",
			Name:      "aggregations_partial_total",
			Help:      "Aggregations where at least one provider failed.",
		}),
		AggregationsFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beach_hui",
			Name:      "aggregations_fallback_total",
			Help:      "Aggregations where every provider failed and defaults were served.",
		}),
		ReadingsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beach_hui",
			Name:      "readings_persisted_total",
			Help:      "Merged readings written to the database.",
		}),
		ReadingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beach_hui",
			Name:      "readings_published_total",
			Help:      "Merged readings published to the readings topic.",
		}),
		PersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beach_hui",
			Name:      "persist_errors_total",
			Help:      "Failed reading writes, database or topic.",
		}),
		ServerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beach_hui",
			Name:      "server_running",
			Help:      "1 when the HTTP server is serving, 0 during shutdown.",
		}),
	}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.CacheLookups,
		m.AggregationDuration,
		m.AggregationsPartial,
		m.AggregationsFallback,
		m.ReadingsPersisted,
		m.ReadingsPublished,
		m.PersistErrors,
		m.ServerRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
