// Package middleware provides cross-cutting concerns for the medal
// dashboard: metrics collection and load tracing.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-medals/internal/ports"
)

// Metric names understood by PrometheusMetrics. Other names fall through to
// the generic operation counter and state gauge.
const (
	MetricDatasetLoads     = "dataset_loads_total"
	MetricDatasetRecords   = "dataset_records"
	MetricDatasetCountries = "dataset_countries"
	MetricDatasetMedals    = "dataset_medals"
	MetricHTTPRequests     = "http_requests_total"
	MetricRateLimited      = "rate_limited_total"

	OperationDatasetLoad = "dataset_load"
	OperationHTTPRequest = "http_request"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks dataset loads and the HTTP API.
type PrometheusMetrics struct {
	datasetLoads     *prometheus.CounterVec
	datasetGauges    *prometheus.GaugeVec
	operationLatency *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	rateLimited      *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
// A nil reg registers with the global Prometheus registry, which panics if
// called twice in one process; tests should pass prometheus.NewRegistry().
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		datasetLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medals",
				Name:      MetricDatasetLoads,
				Help:      "Dataset loads by source and outcome.",
			},
			[]string{"source", "status"},
		),
		datasetGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "medals",
				Name:      "dataset_state",
				Help:      "Size of the loaded dataset: records, countries and medals.",
			},
			[]string{"metric", "source"},
		),
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "medals",
				Name:      "operation_duration_seconds",
				Help:      "Duration of dashboard operations such as dataset loads.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "source"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medals",
				Name:      MetricHTTPRequests,
				Help:      "HTTP requests by route, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
		httpLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "medals",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		rateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medals",
				Name:      MetricRateLimited,
				Help:      "Requests rejected by the rate limiter.",
			},
			[]string{"route"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medals",
				Name:      "operations_total",
				Help:      "Other dashboard operations by name and status.",
			},
			[]string{"operation", "status"},
		),
	}
}

// label returns labels[key], or "unknown" when it is missing or empty.
func label(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return "unknown"
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	if operation == OperationHTTPRequest {
		pm.httpLatency.WithLabelValues(label(labels, "route"), label(labels, "method")).Observe(duration.Seconds())
		return
	}
	pm.operationLatency.WithLabelValues(operation, label(labels, "source")).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case MetricDatasetLoads:
		pm.datasetLoads.WithLabelValues(label(labels, "source"), label(labels, "status")).Add(value)
	case MetricHTTPRequests:
		pm.httpRequests.WithLabelValues(
			label(labels, "route"),
			label(labels, "method"),
			label(labels, "code"),
		).Add(value)
	case MetricRateLimited:
		pm.rateLimited.WithLabelValues(label(labels, "route")).Add(value)
	default:
		status := labels["status"]
		if status == "" {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.datasetGauges.WithLabelValues(metric, label(labels, "source")).Set(value)
}

// RecordHistogram implements the MetricsCollector interface. Values are
// observed in the operation histogram under the metric name.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	pm.operationLatency.WithLabelValues(metric, label(labels, "source")).Observe(value)
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
