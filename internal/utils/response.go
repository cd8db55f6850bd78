package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// MutationResponse is the body returned by POST, PUT and DELETE.
type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Product any    `json:"product"`
}

// Mutation writes a successful mutation response carrying the affected product.
func Mutation(c *gin.Context, code int, message string, product any) {
	c.JSON(code, MutationResponse{
		Success: true,
		Message: message,
		Product: product,
	})
}

// Error writes an error response without details.
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// ErrorWithDetails writes an error response with a details payload.
func ErrorWithDetails(c *gin.Context, code int, message string, details any) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message, Details: details})
}

// RequestID returns the id set by the logging middleware, or a fresh one.
func RequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
