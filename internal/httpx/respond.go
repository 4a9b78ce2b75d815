package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape every endpoint responds with. Failures carry the
// request id so support tickets can be matched against the access log.
// swagger:model
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func OK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

func Fail(c *gin.Context, status int, reason string) {
	c.JSON(status, Envelope{Success: false, Error: reason, RequestID: GetRequestID(c)})
}
