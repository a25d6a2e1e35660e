package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// AssignmentsTotal counts assignment attempts by outcome:
	// assigned, no_rule, no_user, error.
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sst_assignments_total",
			Help: "Total automatic assignment attempts by outcome",
		},
		[]string{"outcome"},
	)

	EscalationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sst_escalations_total",
			Help: "Total successful automatic escalations",
		},
	)

	// StuckAssignmentsTotal counts escalations that found no eligible
	// user, leaving the case with its current owner. Operators alert on
	// this; the transition itself is a silent no-op.
	StuckAssignmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sst_stuck_assignments_total",
			Help: "Escalations skipped because no active user holds the target role",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sst_notifications_total",
			Help: "Notification deliveries by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	SweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sst_sweeps_total",
			Help: "Total due-check sweeps executed",
		},
	)

	// SweepInProgress is raised for the duration of a due-check sweep,
	// so a hung sweep is visible on the dashboard.
	SweepInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sst_sweep_in_progress",
			Help: "Whether a due-check sweep is currently running",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sst_sweep_duration_seconds",
			Help:    "Duration of due-check sweeps",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		},
	)
)

// Middleware records per-request counters and latency.
func Middleware() gin.HandlerFunc {
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

// Handler exposes the prometheus registry for scraping.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
