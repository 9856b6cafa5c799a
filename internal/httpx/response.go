package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body shape every endpoint answers with.
// swagger:model Envelope
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// Fail writes a failed envelope and stops the handler chain.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: msg})
}
