package middleware

import (
	"time"

	"portfolio-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count, latency and in-flight gauge per route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.Begin()
		defer m.End()

		c.Next()

		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
