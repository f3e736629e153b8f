// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for
// the portfolio service.
package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "portfolio"
	namespace   = "portfolio"
)

// Content fetch outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	ContentFetches       *prometheus.CounterVec
	ContentFetchDuration *prometheus.HistogramVec

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateLimited prometheus.Counter
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider registers metrics on a fresh registry that also carries the Go
// runtime and process collectors.
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewProviderWithRegistry(reg)
}

// NewProviderWithRegistry registers metrics on reg. Tests pass their own
// registry so providers can be created repeatedly.
func NewProviderWithRegistry(reg *prometheus.Registry) *Provider {
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		gatherer: reg,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func initMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		ContentFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_fetches_total",
			Help:      "Content store reads by collection and outcome (ok, empty, absent, error)",
		}, []string{"collection", "outcome"}),

		ContentFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_fetch_duration_seconds",
			Help:      "Content store round trip time",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"collection"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "API requests rejected by the rate limiter",
		}),
	}
}

// RecordContentFetch records one content store read.
func (p *Provider) RecordContentFetch(_ context.Context, collection, outcome string, duration time.Duration) {
	p.Metrics.ContentFetches.WithLabelValues(collection, outcome).Inc()
	p.Metrics.ContentFetchDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

// RecordHTTPRequest records a served request. Unmatched routes should be
// passed as an empty route to keep label cardinality bounded.
func (p *Provider) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.Metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.Metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncrementRateLimited counts a rejected API request.
func (p *Provider) IncrementRateLimited() {
	p.Metrics.RateLimited.Inc()
}
