package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector records calls to the planning service
type APIMetricsCollector struct {
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiRateLimitWait   *prometheus.HistogramVec
	circuitState       *prometheus.GaugeVec
}

// NewAPIMetricsCollector creates a new API metrics collector
func NewAPIMetricsCollector() *APIMetricsCollector {
	return &APIMetricsCollector{
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_requests_total",
				Help:      "Planning service requests by method, endpoint, and status code (0 = unreachable)",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_request_duration_seconds",
				Help:      "Planning service request duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"method", "endpoint"},
		),
		apiRateLimitWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "api_rate_limit_wait_seconds",
				Help:      "Time spent waiting for the client rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"method", "endpoint"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "circuit_state",
				Help:      "Planning service circuit breaker position; the current state reads 1",
			},
			[]string{"state"},
		),
	}
}

// Register registers all API metrics with reg
func (c *APIMetricsCollector) Register(reg prometheus.Registerer) error {
	return registerAll(reg, c.apiRequestsTotal, c.apiRequestDuration, c.apiRateLimitWait, c.circuitState)
}

// RecordAPIRequest records a finished request
func (c *APIMetricsCollector) RecordAPIRequest(method, endpoint string, statusCode int, duration float64) {
	c.apiRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	c.apiRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordRateLimitWait records time spent waiting for the rate limiter
func (c *APIMetricsCollector) RecordRateLimitWait(method, endpoint string, duration float64) {
	c.apiRateLimitWait.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordCircuitState marks state as the breaker's current position
func (c *APIMetricsCollector) RecordCircuitState(state string) {
	for _, s := range circuitStates {
		v := 0.0
		if s == state {
			v = 1
		}
		c.circuitState.WithLabelValues(s).Set(v)
	}
}

var circuitStates = []string{"closed", "open", "half-open"}
