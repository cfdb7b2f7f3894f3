package awscloud

import (
	"errors"
	"time"

	"github.com/aws/smithy-go"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "cloudprobe"

// Call results recorded in the result label.
const (
	resultSuccess = "success"
	resultError   = "error"
)

// Metrics records API call counts and latencies in a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	calls     *prometheus.CounterVec
	throttled *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates a Metrics with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "aws",
				Name:      "api_calls_total",
				Help:      "Total number of AWS API calls",
			},
			[]string{"service", "operation", "result"},
		),
		throttled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "aws",
				Name:      "api_throttled_total",
				Help:      "Total number of AWS API calls rejected by rate limiting",
			},
			[]string{"service", "operation"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "aws",
				Name:      "api_call_duration_seconds",
				Help:      "Duration of AWS API calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"service", "operation"},
		),
	}
	m.registry.MustRegister(m.calls, m.throttled, m.duration)
	return m
}

// Observe records one API call.
func (m *Metrics) Observe(service, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(service, operation, resultLabel(err)).Inc()
	if IsThrottled(err) {
		m.throttled.WithLabelValues(service, operation).Inc()
	}
	m.duration.WithLabelValues(service, operation).Observe(d.Seconds())
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile writes all metrics in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// resultLabel maps an error to the result label, using the API error code when available.
func resultLabel(err error) string {
	if err == nil {
		return resultSuccess
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		return apiErr.ErrorCode()
	}
	return resultError
}
