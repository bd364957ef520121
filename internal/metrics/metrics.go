// Package metrics exposes prometheus collectors for store operations and HTTP traffic.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ugur10/course-store/internal/query"
	"github.com/ugur10/course-store/internal/resource"
)

// Operation outcome labels.
const (
	StatusOK           = "ok"
	StatusNotFound     = "not_found"
	StatusInvalid      = "invalid"
	StatusInvalidQuery = "invalid_query"
	StatusError        = "error"
)

// Compile-time assertion that Metrics can observe a store.
var _ resource.Observer = (*Metrics)(nil)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	operations      *prometheus.CounterVec
	records         prometheus.Gauge
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors under namespace on a fresh registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of store operations",
			},
			[]string{"operation", "status"},
		),
		records: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_records",
				Help:      "Number of records currently held by the store",
			},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveOperation counts one store operation with its outcome.
func (m *Metrics) ObserveOperation(op string, err error) {
	m.operations.WithLabelValues(op, Status(err)).Inc()
}

// ObserveSize records the current number of records.
func (m *Metrics) ObserveSize(n int) {
	m.records.Set(float64(n))
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Status maps an operation error to its outcome label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, resource.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, resource.ErrValidation):
		return StatusInvalid
	case errors.Is(err, query.ErrInvalidQuery):
		return StatusInvalidQuery
	default:
		return StatusError
	}
}
