package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/switchyard/pkg/config"
)

// HTTPMetrics tracks metrics for the HTTP API.
//
// Metrics:
//   - switchyard_router_http_requests_total: Request count by method, route, status
//   - switchyard_router_http_request_duration_seconds: Request duration histogram
//   - switchyard_router_http_requests_in_flight: Requests currently being served
//   - switchyard_router_auth_failures_total: Rejected API keys by reason
//   - switchyard_router_rate_limited_total: Rate limited requests by limit
type HTTPMetrics struct {
	// Total request count
	requestsTotal *prometheus.CounterVec

	// Request duration histogram
	requestDuration *prometheus.HistogramVec

	// Requests currently being served
	inFlight prometheus.Gauge

	authFailures *prometheus.CounterVec
	rateLimited  *prometheus.CounterVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"method", "route"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),

		authFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "auth_failures_total",
				Help:      "Total number of requests rejected for a missing, invalid or disabled API key",
			},
			[]string{"reason"},
		),

		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rate_limited_total",
				Help:      "Total number of requests rejected by a rate limit",
			},
			[]string{"limit"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		hm.requestsTotal,
		hm.requestDuration,
		hm.inFlight,
		hm.authFailures,
		hm.rateLimited,
	)

	return hm
}

// RecordRequest records a completed HTTP request.
func (hm *HTTPMetrics) RecordRequest(method, route string, status int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	hm.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
