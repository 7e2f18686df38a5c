// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics holds the Prometheus collectors of the streaming client and
// the mirror. Collectors register with the default registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results.
const (
	ResultSuccess     = "success"
	ResultValidation  = "validation"
	ResultClientError = "client_error"
	ResultServerError = "server_error"
	ResultTimeout     = "timeout"
	ResultCanceled    = "canceled"
	ResultTransport   = "transport"
	ResultMaterialize = "materialize"
)

var (
	// UpstreamRequestsTotal counts round trips to the media server. Labelled
	// by promhttp with the status code and method.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jfstream_upstream_requests_total",
		Help: "Total HTTP round trips to the media server",
	}, []string{"code", "method"})

	// UpstreamRequestDuration tracks round trip latency up to response headers.
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jfstream_upstream_request_duration_seconds",
		Help:    "Latency of HTTP round trips to the media server",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method"})

	// UpstreamInFlight is the number of round trips currently open.
	UpstreamInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jfstream_upstream_in_flight_requests",
		Help: "HTTP round trips to the media server currently in flight",
	})

	// OperationTotal counts client operations by outcome.
	OperationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jfstream_operation_total",
		Help: "Total streaming client operations by operation and result",
	}, []string{"operation", "result"})

	// OperationDuration covers the whole operation, body transfer included.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jfstream_operation_duration_seconds",
		Help:    "Duration of streaming client operations including body transfer",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"operation"})

	// DownloadedBytesTotal counts payload bytes written to local files.
	DownloadedBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jfstream_downloaded_bytes_total",
		Help: "Payload bytes materialized to local files",
	}, []string{"operation"})

	// MirrorSegmentsTotal counts segments handled by mirror runs.
	MirrorSegmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jfstream_mirror_segments_total",
		Help: "Segments handled by mirror runs by result",
	}, []string{"result"})

	// MirrorRunDuration tracks complete mirror runs.
	MirrorRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "jfstream_mirror_run_duration_seconds",
		Help:    "Duration of complete mirror runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)

// ObserveOperation records one finished operation.
func ObserveOperation(operation, result string, duration time.Duration) {
	OperationTotal.WithLabelValues(operation, result).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddDownloadedBytes records materialized payload size.
func AddDownloadedBytes(operation string, n int64) {
	if n <= 0 {
		return
	}
	DownloadedBytesTotal.WithLabelValues(operation).Add(float64(n))
}

// IncMirrorSegment records one mirrored segment outcome ("written", "skipped", "failed").
func IncMirrorSegment(result string) {
	MirrorSegmentsTotal.WithLabelValues(result).Inc()
}

// ObserveMirrorRun records the duration of a complete mirror run.
func ObserveMirrorRun(duration time.Duration) {
	MirrorRunDuration.Observe(duration.Seconds())
}
