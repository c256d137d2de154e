// Package metrics exposes Prometheus collectors for the generator service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "uiforge"

// Outcomes recorded for pipeline operations.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations    *prometheus.CounterVec
	normalizePath *prometheus.CounterVec
	llmDuration   *prometheus.HistogramVec
	wsConnections prometheus.Gauge
	breakerState  prometheus.Gauge
	rateLimited   prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Pipeline operations by operation, framework and outcome.",
		}, []string{"operation", "framework", "outcome"}),
		normalizePath: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalize_path_total",
			Help:      "Completions normalized, by parsing path taken.",
		}, []string{"path"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Upstream completion latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"operation", "outcome"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open socket channel connections.",
		}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "llm_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open).",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.operations,
		m.normalizePath,
		m.llmDuration,
		m.wsConnections,
		m.breakerState,
		m.rateLimited,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Operation counts one pipeline operation.
func (m *Metrics) Operation(op, framework, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, framework, outcome).Inc()
}

// NormalizePath counts which normalizer path handled a completion.
func (m *Metrics) NormalizePath(path string) {
	if m == nil {
		return
	}
	m.normalizePath.WithLabelValues(path).Inc()
}

// LLMRequest records the latency of one upstream call.
func (m *Metrics) LLMRequest(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmDuration.WithLabelValues(op, outcome).Observe(d.Seconds())
}

// ConnectionOpened increments the socket connection gauge.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

// ConnectionClosed decrements the socket connection gauge.
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}

// BreakerState records the numeric circuit breaker state.
func (m *Metrics) BreakerState(state int) {
	if m == nil {
		return
	}
	m.breakerState.Set(float64(state))
}

// RateLimited counts a rejected request.
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
