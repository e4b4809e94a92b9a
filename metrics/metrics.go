// Package metrics registers the console's Prometheus collectors.
//
// Everything is registered on the default registry and exposed by the
// /metrics route through promhttp.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AuditEntriesRecorded counts stored audit entries, labelled by source
	// (console or ingest).
	AuditEntriesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_entries_recorded_total",
			Help: "Total number of audit entries stored, by source.",
		},
		[]string{"source"},
	)

	// AuditRecordFailures counts entries that could not be stored.
	AuditRecordFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_record_failures_total",
			Help: "Total number of audit entries that failed to persist.",
		},
	)

	// AuditPublishFailures counts entries stored locally but not delivered
	// to the publisher.
	AuditPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_publish_failures_total",
			Help: "Total number of audit entries that failed to publish.",
		},
	)

	// AuditIngestRejected counts posted records refused as malformed.
	AuditIngestRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_ingest_rejected_total",
			Help: "Total number of ingested audit records rejected as malformed.",
		},
	)

	// HTTPRequestsTotal is labelled by method, route pattern and status code.
	// The route pattern keeps label cardinality bounded.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route pattern, and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route pattern.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
