package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the response body shape shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Success writes a successful envelope.
func Success(c *gin.Context, status int, message string, data interface{}) {
	JSON(c, status, Envelope{Success: true, Message: message, Data: data})
}
