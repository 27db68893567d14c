package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-report/internal/shared/metrics"
	"resume-report/internal/shared/telemetry"
)

// Logging emits a structured log and records HTTP metrics per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.ObserveHTTPRequest(c.FullPath(), c.Request.Method, status, latency)

		analysisID, _ := c.Get("analysisId")
		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_id":   ClientIDFromContext(c),
			"analysis_id": analysisID,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
