// Package metrics exposes prometheus instruments for GraphQL operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Metrics holds the application's metric instruments.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	uploads    *prometheus.CounterVec
}

// New registers the instruments on a fresh registry together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "empdir",
			Name:      "graphql_operations_total",
			Help:      "GraphQL operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "empdir",
			Name:      "graphql_operation_duration_seconds",
			Help:      "Resolver latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "empdir",
			Name:      "graphql_uploads_total",
			Help:      "Employee photo uploads by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.operations,
		m.duration,
		m.uploads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOperation records one resolver invocation. Nil receivers are ignored.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveUpload records the result of one photo upload.
func (m *Metrics) ObserveUpload(result string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
