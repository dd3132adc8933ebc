// File: internal/middleware/metrics.go
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	listingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_created_total",
		Help: "Total number of listings created",
	})

	listingViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listing_views_total",
		Help: "Total number of recorded listing views",
	})
)

// CountListingCreated bumps the listing creation counter.
func CountListingCreated() { listingsCreatedTotal.Inc() }

// CountListingView bumps the listing view counter.
func CountListingView() { listingViewsTotal.Inc() }

// Metrics records per-request counters and latency histograms. The route
// template is used as the path label so UUIDs do not explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
