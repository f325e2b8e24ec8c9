package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/locale"
)

// Error codes
const (
	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// ErrorTemplate is the page rendered for every error outcome.
const ErrorTemplate = "error.html"

// APIError represents a standardized error outcome
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// RespondWithError renders the error page, or JSON for clients that ask
// for it, and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	if c.NegotiateFormat(binding.MIMEHTML, binding.MIMEJSON) == binding.MIMEJSON {
		c.AbortWithStatusJSON(statusCode, err)
		return
	}

	// anonymous visitors get the zero actor, like middleware.GetActor
	actor := authz.Actor{}
	if v, exists := c.Get(constants.ContextKeyActor); exists {
		if a, ok := v.(authz.Actor); ok {
			actor = a
		}
	}
	c.HTML(statusCode, ErrorTemplate, gin.H{
		"title":  http.StatusText(statusCode),
		"status": statusCode,
		"error":  err,
		"actor":  actor,
	})
	c.Abort()
}

// Helper functions for common error responses

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = locale.Localize(c, "error.forbidden")
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = locale.Localize(c, "error.notFound")
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = locale.Localize(c, "form.submission")
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = locale.Localize(c, "error.internal")
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
