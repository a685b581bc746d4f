// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// veritas_http_requests_total{route,method,status}
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_http_requests_total",
		Help: "HTTP requests served, by route pattern and status",
	}, []string{"route", "method", "status"})

	// veritas_http_request_duration_seconds{route}
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veritas_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// veritas_image_verdicts_total{verdict=low|medium|high}
	ImageVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_image_verdicts_total",
		Help: "Image risk verdicts produced by the classifier",
	}, []string{"verdict"})

	// veritas_display_risk_total{display=real|likely-real|uncertain|likely-ai|ai}
	DisplayRisks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_display_risk_total",
		Help: "Display risk buckets assigned after refinement",
	}, []string{"display"})

	// veritas_image_fallbacks_total{reason}
	ImageFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_image_fallbacks_total",
		Help: "Image analyses answered with the fallback verdict",
	}, []string{"reason"})

	// veritas_upstream_attempts_total{provider,outcome}
	UpstreamAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_upstream_attempts_total",
		Help: "Individual attempts against upstream AI providers",
	}, []string{"provider", "outcome"})

	// veritas_upstream_latency_seconds{provider}
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veritas_upstream_latency_seconds",
		Help:    "Upstream AI call latency including retries",
		Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32},
	}, []string{"provider"})

	// veritas_breaker_state{name} 0=closed 1=half-open 2=open
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "veritas_breaker_state",
		Help: "Circuit breaker state per upstream",
	}, []string{"name"})

	// veritas_chat_red_flags_total{category}
	RedFlags = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_chat_red_flags_total",
		Help: "Red flags detected by the chat scanner",
	}, []string{"category"})

	// veritas_chat_threat_level_total{level}
	ThreatLevels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_chat_threat_level_total",
		Help: "Chat scans by resulting threat level",
	}, []string{"level"})

	// veritas_reports_total{category}
	Reports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_reports_total",
		Help: "Anonymous reports submitted",
	}, []string{"category"})

	// veritas_inflight_rejections_total
	InFlightRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veritas_inflight_rejections_total",
		Help: "Image analyses rejected because one was already running for the client",
	})

	// veritas_events_total
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veritas_events_total",
		Help: "Domain events seen by the in-process audit consumer",
	}, []string{"type"})
)

// ObserveHTTP records one served request
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordUpstreamAttempt counts a single upstream try
func RecordUpstreamAttempt(provider, outcome string) {
	UpstreamAttempts.WithLabelValues(provider, outcome).Inc()
}

// RecordFallback counts a fallback verdict
func RecordFallback(reason string) {
	ImageFallbacks.WithLabelValues(reason).Inc()
}
