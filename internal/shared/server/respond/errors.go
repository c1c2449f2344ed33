package respond

import (
	"github.com/gin-gonic/gin"

	"cost-estimator/internal/shared/telemetry"
)

// Error sends a failed envelope and aborts the chain. cause is echoed as the
// "error" field when non-nil.
func Error(c *gin.Context, status int, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	body := Envelope{Success: false, Message: message}
	if cause != nil {
		fields["error"] = cause.Error()
		body.Error = cause.Error()
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, body)
}
