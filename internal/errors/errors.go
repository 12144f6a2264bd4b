package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-list-api/internal/fault"
	"go.uber.org/zap"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Service errors
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response and stops the handler chain
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

// Respond maps a failure to its status code. Internal failures are logged with
// their cause; the cause reaches the client only in debug mode.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	message := fault.MessageOf(err)

	switch fault.KindOf(err) {
	case fault.KindValidation:
		BadRequest(c, message)
	case fault.KindConflict:
		Conflict(c, message)
	case fault.KindNotFound:
		NotFound(c, message)
	case fault.KindForbidden:
		Forbidden(c, message)
	case fault.KindUnauthenticated:
		RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, message))
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)

		apiErr := NewAPIError(ErrCodeInternalError, message)
		if gin.Mode() == gin.DebugMode {
			apiErr.Details = err.Error()
		}
		RespondWithError(c, http.StatusInternalServerError, apiErr)
	}
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// InvalidToken sends a 403 response for a token that failed verification
func InvalidToken(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid or expired token"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeInvalidToken, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests, slow down"
	}
	RespondWithError(c, http.StatusTooManyRequests, NewAPIError(ErrCodeTooManyRequests, message))
}
