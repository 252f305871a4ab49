package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analytics service.
type Metrics struct {
	// Ingestion metrics
	EventsIngested  *prometheus.CounterVec
	IngestFailures  *prometheus.CounterVec
	AggregationTime *prometheus.HistogramVec

	// Geocoding metrics
	GeoLookups         *prometheus.CounterVec
	GeoLookupLatency   *prometheus.HistogramVec
	BreakerState       *prometheus.GaugeVec
	BreakerTransitions *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all Prometheus metrics on reg. A nil reg
// uses the default registry.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	return &Metrics{
		EventsIngested: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_ingested_total",
				Help:      "Total number of analytics events stored",
			},
			[]string{"type"},
		),
		IngestFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_failures_total",
				Help:      "Rejected or failed ingestion attempts",
			},
			[]string{"kind"},
		),
		AggregationTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "aggregation_latency_seconds",
				Help:      "Time spent computing summaries",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation"},
		),

		GeoLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "geo_lookups_total",
				Help:      "Reverse geocoding lookups by outcome",
			},
			[]string{"outcome"}, // found, not_found, error
		),
		GeoLookupLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "geo_lookup_latency_seconds",
				Help:      "Reverse geocoding latency",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"cache_hit"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		BreakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_transitions_total",
				Help:      "Circuit breaker state transitions",
			},
			[]string{"name", "from", "to"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Rate limit rejections",
			},
			[]string{"endpoint"},
		),

		gatherer: gatherer,
	}
}

// Handler returns the Prometheus metrics HTTP handler for the registry the
// metrics were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordIngest records a stored event.
func (m *Metrics) RecordIngest(eventType string) {
	m.EventsIngested.WithLabelValues(eventType).Inc()
}

// RecordIngestFailure records a rejected ingestion by error kind.
func (m *Metrics) RecordIngestFailure(kind string) {
	m.IngestFailures.WithLabelValues(kind).Inc()
}

// RecordAggregation records how long a summary took.
func (m *Metrics) RecordAggregation(operation string, latency time.Duration) {
	m.AggregationTime.WithLabelValues(operation).Observe(latency.Seconds())
}

// RecordGeoLookup records a geo lookup.
func (m *Metrics) RecordGeoLookup(outcome string, cacheHit bool, latency time.Duration) {
	m.GeoLookups.WithLabelValues(outcome).Inc()
	m.GeoLookupLatency.WithLabelValues(strconv.FormatBool(cacheHit)).Observe(latency.Seconds())
}

// RecordBreakerState records a circuit breaker transition.
func (m *Metrics) RecordBreakerState(name, from, to string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
	m.BreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordHTTPRequest records a served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, latency time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}
