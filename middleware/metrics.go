package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Notes Metrics
	NotesOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_operations_total",
			Help: "Total number of note operations",
		},
		[]string{"operation", "outcome"}, // create/update/delete/favorite, success/failure
	)

	// Sync Metrics
	SyncReconcileEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_reconcile_events_total",
			Help: "Total number of change events applied to in-memory collections",
		},
		[]string{"action"}, // insert, update, delete
	)

	SyncActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_active_subscriptions",
			Help: "Current number of open change-feed subscriptions",
		},
	)

	SyncStatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_status_transitions_total",
			Help: "Total number of sync status transitions",
		},
		[]string{"status"}, // connected, syncing, disconnected
	)
)

// MetricsMiddleware handles basic HTTP metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		c.Next()

		HTTPRequestsTotal.WithLabelValues(
			method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}

// Helper functions for tracking specific metrics

// TrackNoteOperation records the outcome of a mutation call
func TrackNoteOperation(operation, outcome string) {
	NotesOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// TrackReconcileEvent counts a change event applied to a collection
func TrackReconcileEvent(action string) {
	SyncReconcileEventsTotal.WithLabelValues(action).Inc()
}

// TrackSubscriptionOpened increments the open subscription gauge
func TrackSubscriptionOpened() {
	SyncActiveSubscriptions.Inc()
}

// TrackSubscriptionClosed decrements the open subscription gauge
func TrackSubscriptionClosed() {
	SyncActiveSubscriptions.Dec()
}

// TrackSyncStatus counts a sync status transition
func TrackSyncStatus(status string) {
	SyncStatusTransitions.WithLabelValues(status).Inc()
}
