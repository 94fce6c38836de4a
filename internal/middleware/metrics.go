package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"newsletter-go/internal/metrics"
)

// GinMetrics records request counts, latency and 4xx/5xx responses per
// matched route.
func GinMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method
		statusCode := c.Writer.Status()
		status := fmt.Sprintf("%d", statusCode)

		m.HttpRequestsTotal.WithLabelValues(endpoint, status, method).Inc()
		m.HttpRequestDuration.WithLabelValues(endpoint, method).Observe(duration)
		if statusCode >= 400 && statusCode < 600 {
			m.HttpErrorsTotal.WithLabelValues(endpoint, status, method).Inc()
		}
	}
}
