package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for the engine.
// Every method is safe to call on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SuggestionRequests *prometheus.CounterVec
	RemoteDuration     prometheus.Histogram
	SessionsCreated    prometheus.Counter
	SuggestionsApplied prometheus.Counter
}

// NewCollector creates a collector with its own registry so tests can build as many as they need.
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
		SuggestionRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestion_requests_total",
				Help:      "Suggestion requests by the path that served them",
			},
			[]string{"source"},
		),
		RemoteDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_suggestion_duration_seconds",
				Help:      "Latency of calls to the remote suggestion service",
				Buckets:   prometheus.DefBuckets,
			},
		),
		SessionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_created_total",
				Help:      "Total number of optimization sessions started",
			},
		),
		SuggestionsApplied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestions_applied_total",
				Help:      "Total number of suggestions applied to a CV",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.SuggestionRequests,
		c.RemoteDuration,
		c.SessionsCreated,
		c.SuggestionsApplied,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry backing this collector
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest counts one request and observes its duration
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSuggestionSource counts a suggestion request served by source
func (c *Collector) RecordSuggestionSource(source string) {
	if c == nil {
		return
	}
	c.SuggestionRequests.WithLabelValues(source).Inc()
}

// ObserveRemoteDuration records how long a remote suggestion call took
func (c *Collector) ObserveRemoteDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.RemoteDuration.Observe(d.Seconds())
}

// RecordSessionCreated counts a new session
func (c *Collector) RecordSessionCreated() {
	if c == nil {
		return
	}
	c.SessionsCreated.Inc()
}

// RecordSuggestionApplied counts an applied suggestion
func (c *Collector) RecordSuggestionApplied() {
	if c == nil {
		return
	}
	c.SuggestionsApplied.Inc()
}
