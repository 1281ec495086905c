package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// API error codes.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeMalformedRequest   = "MALFORMED_REQUEST"
	CodeInternal           = "INTERNAL_ERROR"
)

// ResponseError is the error body shape for every 4xx/5xx response.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError sends an error response. The full cause is logged
// server-side; the client only sees the message and code.
func RespondWithError(c *gin.Context, statusCode int, message string, errorCode string, logger *zap.Logger, cause error) {
	logger.Error("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.Error(cause),
	)

	c.JSON(statusCode, ResponseError{
		Error: message,
		Code:  errorCode,
	})
}

// RespondWithMessage sends a success response carrying only a message.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"message": message,
	})
}
