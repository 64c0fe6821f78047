package middleware

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
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	grievancesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievances_created_total",
			Help: "Total number of grievances created",
		},
		[]string{"category"},
	)

	statusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_status_transitions_total",
			Help: "Total number of grievance status transitions",
		},
		[]string{"from", "to"},
	)

	verificationsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verifications_recorded_total",
			Help: "Total number of community verifications recorded",
		},
		[]string{"outcome"},
	)

	grievanceCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grievance_cache_total",
			Help: "Grievance read cache lookups",
		},
		[]string{"result"},
	)
)

// MetricsMiddleware collects Prometheus metrics for each HTTP request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		// Use the route pattern, not the raw path, to keep cardinality low
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordGrievanceCreated records a grievance creation metric.
func RecordGrievanceCreated(category string) {
	grievancesCreatedTotal.WithLabelValues(category).Inc()
}

// RecordStatusTransition records a grievance status transition metric.
func RecordStatusTransition(from, to string) {
	statusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordVerification records a verification outcome metric.
func RecordVerification(outcome string) {
	verificationsRecordedTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records a grievance cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	grievanceCacheTotal.WithLabelValues(result).Inc()
}
