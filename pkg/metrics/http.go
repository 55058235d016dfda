package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records request outcomes per route.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	upstream *prometheus.CounterVec
}

// NewRequestMetrics registers the HTTP metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method, and status.",
	}, []string{"route", "method", "status"})
	upstream := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_errors_total",
		Help: "Upstream store failures surfaced to clients.",
	}, []string{"route"})
	reg.MustRegister(duration, total, upstream)
	return &RequestMetrics{
		duration: duration,
		total:    total,
		upstream: upstream,
	}
}

// ObserveRequest records one completed request.
func (m *RequestMetrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	route = normalizeLabel(route)
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
	m.total.WithLabelValues(route, method, statusLabel(status)).Inc()
}

// IncUpstreamError counts a request that failed on the upstream store.
func (m *RequestMetrics) IncUpstreamError(route string) {
	if m == nil || m.upstream == nil {
		return
	}
	m.upstream.WithLabelValues(normalizeLabel(route)).Inc()
}

func normalizeLabel(route string) string {
	if route == "" {
		return "unknown"
	}
	return route
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
