// Package observability holds the Prometheus collector and the OpenTelemetry
// tracer setup.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for insight requests.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Insight metrics
	InsightRequests *prometheus.CounterVec
	InsightDuration *prometheus.HistogramVec
	BreakerState    *prometheus.GaugeVec

	// Embedding cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector with its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		InsightRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "insight_requests_total",
				Help:      "Total number of insight operations by strategy and outcome",
			},
			[]string{"operation", "strategy", "outcome"},
		),
		InsightDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "insight_duration_seconds",
				Help:      "Insight operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "strategy"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_cache_hits_total",
				Help:      "Total number of embedding cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_cache_misses_total",
				Help:      "Total number of embedding cache misses",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.InsightRequests,
		c.InsightDuration,
		c.BreakerState,
		c.CacheHits,
		c.CacheMisses,
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordInsight counts one insight operation and observes its duration.
func (c *Collector) RecordInsight(operation, strategy, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.InsightRequests.WithLabelValues(operation, strategy, outcome).Inc()
	c.InsightDuration.WithLabelValues(operation, strategy).Observe(d.Seconds())
}

// RecordHTTP counts one HTTP request and observes its duration.
func (c *Collector) RecordHTTP(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetBreakerState records a breaker state as 0, 1 or 2.
func (c *Collector) SetBreakerState(name string, state int) {
	if c == nil {
		return
	}
	c.BreakerState.WithLabelValues(name).Set(float64(state))
}

// CacheHit counts an embedding cache hit.
func (c *Collector) CacheHit() {
	if c != nil {
		c.CacheHits.Inc()
	}
}

// CacheMiss counts an embedding cache miss.
func (c *Collector) CacheMiss() {
	if c != nil {
		c.CacheMisses.Inc()
	}
}
