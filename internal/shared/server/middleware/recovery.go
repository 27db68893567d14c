package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-report/internal/shared/server/respond"
	"resume-report/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error response. The stack is
// logged, never returned to the caller.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"route":      c.FullPath(),
			}
			if clientID := ClientIDFromContext(c); clientID != "" {
				fields["client_id"] = clientID
			}
			if analysisID := c.GetString("analysisId"); analysisID != "" {
				fields["analysis_id"] = analysisID
			}
			telemetry.Error("http.panic", fields)
			respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected server error", nil)
		}()
		c.Next()
	}
}
