// Package metrics holds the Prometheus collectors shared across board-task.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/shifa-s11/board-task/internal/common/errors"
)

var (
	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardtask_store_mutations_total",
			Help: "Entity store mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	DragGestures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardtask_drag_gestures_total",
			Help: "Finished drag gestures by outcome",
		},
		[]string{"outcome"},
	)

	CacheNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardtask_cache_notifications_total",
			Help: "Subscriber notifications delivered by cache key",
		},
		[]string{"key"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Result labels used with StoreMutations.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultMissing = "missing"
	ResultStorage = "storage_error"
	ResultError   = "error"
)

// ObserveMutation counts one store mutation of kind op.
func ObserveMutation(op string, err error) {
	StoreMutations.WithLabelValues(op, Result(err)).Inc()
}

// Result maps an operation error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case apperrors.IsValidation(err), apperrors.IsBadRequest(err):
		return ResultInvalid
	case apperrors.IsNotFound(err):
		return ResultMissing
	case apperrors.IsStorage(err):
		return ResultStorage
	default:
		return ResultError
	}
}
