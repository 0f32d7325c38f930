// Package metrics provides the Prometheus collectors of the drive service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fastdrive_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fastdrive_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// drive
	driveMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fastdrive_drive_mutations_total",
			Help: "Committed drive mutations by action",
		},
		[]string{"action", "result"},
	)

	driveEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fastdrive_drive_entries",
			Help: "Entries held in loaded drives",
		},
		[]string{"state"},
	)

	drivesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fastdrive_drives_loaded",
			Help: "Number of per-user drives in memory",
		},
	)

	trashPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fastdrive_trash_purged_total",
			Help: "Entries removed by the trash retention task",
		},
	)

	// feed
	feedConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fastdrive_feed_connections_active",
			Help: "Number of open change feed connections",
		},
	)

	feedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fastdrive_feed_events_total",
			Help: "Change events published to the feed",
		},
		[]string{"type"},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fastdrive_auth_attempts_total",
			Help: "Total login attempts",
		},
		[]string{"result"},
	)
)

// GinMiddleware records request count and latency. The route template is
// used as the path label to keep cardinality bounded.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordMutation counts a drive mutation; ok is false when it failed.
func RecordMutation(action string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	driveMutationsTotal.WithLabelValues(action, result).Inc()
}

// SetDriveStats publishes the totals over all loaded drives.
func SetDriveStats(drives, live, trashed int) {
	drivesLoaded.Set(float64(drives))
	driveEntries.WithLabelValues("live").Set(float64(live))
	driveEntries.WithLabelValues("trashed").Set(float64(trashed))
}

func AddTrashPurged(n int) {
	trashPurgedTotal.Add(float64(n))
}

func SetFeedConnections(n int) {
	feedConnections.Set(float64(n))
}

func RecordFeedEvent(eventType string) {
	feedEventsTotal.WithLabelValues(eventType).Inc()
}

// RecordAuth counts a login attempt by result ("success", "failure").
func RecordAuth(result string) {
	authAttemptsTotal.WithLabelValues(result).Inc()
}
