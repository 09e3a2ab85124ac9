// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       interface{}      `json:"data"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// ErrorResponse is the failure side of the envelope.
type ErrorResponse struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Paginated sends a page of results together with its pagination block.
func Paginated(c *gin.Context, message string, data interface{}, meta pagination.Meta) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &meta,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, details ...validation.FieldError) {
	// Abort first so no later handler writes to the response.
	c.Abort()

	c.JSON(code, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// ValidationError sends a 400 for a failed bind. Field-level details are
// attached when the validator produced them.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, validation.Details(err)...)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// HandleError maps a service error onto the status code policy. Unknown
// errors become a bare 500; the cause is attached to the gin context so the
// logging middleware records it server-side.
func HandleError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		Error(c, status, "internal server error")
		return
	}
	Error(c, status, xerrors.PublicMessage(err))
}

// StatusFor returns the HTTP status for a service error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrInvalidInput), errors.Is(err, xerrors.ErrInactive):
		return http.StatusBadRequest
	case errors.Is(err, xerrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, xerrors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
