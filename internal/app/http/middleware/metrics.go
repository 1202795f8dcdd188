package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"events-app/internal/infra/metrics"
)

// MetricsMiddleware records request counts and latency per route. The route
// template (not the raw path) is used so event ids do not explode the label
// space.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
