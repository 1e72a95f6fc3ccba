// Package metrics holds the Prometheus collectors shared by the delivery
// pipeline, the install validator and the HTTP server.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dispatch attempts partitioned by outcome ("ok" or a failure reason)
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sendto_dispatch_total",
			Help: "Send-to-device requests by outcome",
		},
		[]string{"outcome"},
	)

	StagedFilesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sendto_staged_files_total",
			Help: "Files written to the staging workspace",
		},
	)

	StagedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sendto_staged_bytes_total",
			Help: "Bytes written to the staging workspace",
		},
	)

	ValidationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "install_validation_total",
			Help: "Install validation checks by result",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Outcome labels
const (
	OutcomeOK       = "ok"
	ResultValidated = "validated"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
)

// ObserveDispatch records one Dispatch call. An empty reason means success.
func ObserveDispatch(reason string) {
	if reason == "" {
		reason = OutcomeOK
	}
	DispatchTotal.WithLabelValues(reason).Inc()
}

// ObserveStaged records one staged file.
func ObserveStaged(bytes int64) {
	StagedFilesTotal.Inc()
	StagedBytesTotal.Add(float64(bytes))
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, seconds float64) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	HTTPRequestsTotal.With(labels).Inc()
	HTTPRequestDuration.With(labels).Observe(seconds)
}
