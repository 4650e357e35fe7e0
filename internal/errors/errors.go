package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dkalmar/homescope/internal/middleware"
)

// Error code constants for standardized error responses.
const (
	ErrNotFound          = "NOT_FOUND"
	ErrBadRequest        = "BAD_REQUEST"
	ErrInternalServer    = "INTERNAL_SERVER_ERROR"
	ErrValidation        = "VALIDATION_ERROR"
	ErrLedgerUnavailable = "LEDGER_UNAVAILABLE"
	ErrRefreshFailed     = "REFRESH_FAILED"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// LedgerUnavailable returns a 503 when the search cache ledger cannot be
// read or written. The condition is surfaced rather than treated as a
// cache miss.
func LedgerUnavailable(c *gin.Context, err error) {
	logError(c, "Search cache ledger unavailable", err)
	respond(c, http.StatusServiceUnavailable, ErrLedgerUnavailable,
		"Search cache is temporarily unavailable", nil)
}

// RefreshFailed returns a 502 when the external listing fetch failed.
func RefreshFailed(c *gin.Context, err error) {
	logError(c, "Listing refresh failed", err)
	respond(c, http.StatusBadGateway, ErrRefreshFailed,
		"Failed to fetch fresh listing data", nil)
}

// InternalServerError returns a 500 response with a generic message; the
// actual error is logged, not exposed.
func InternalServerError(c *gin.Context, message string, err error) {
	logError(c, message, err)
	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// ValidationError returns a 400 response with field-specific validation
// errors parsed from the validator library.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	respond(c, http.StatusBadRequest, ErrValidation,
		"Validation failed for one or more fields", details)
}

func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	requestID := middleware.GetRequestID(c)

	if status < http.StatusInternalServerError {
		if log := middleware.GetLogger(c); log != nil {
			fields := map[string]interface{}{
				"message": message,
				"path":    c.Request.URL.Path,
			}
			if details != nil {
				fields["details"] = details
			}
			log.Warn("Request rejected", fields)
		}
	}

	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

func logError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error(message, err, map[string]interface{}{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	}
}

// formatValidationError converts a validator.FieldError to a human-readable
// message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
