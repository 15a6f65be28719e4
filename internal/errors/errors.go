package errors

import (
	"errors"
	"net/http"

	"storefront/internal/model"
)

var (
	// ErrUnauthorized is returned when a request carries no usable session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned when a username or password is wrong.
	ErrInvalidCredentials = errors.New("credentials do not match")
	// ErrUsernameInUse is returned when registering a name that is taken.
	ErrUsernameInUse = errors.New("username in use")
	// ErrUserNotFound is returned when the session's user no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrItemNotFound is returned when a catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Record validation
// failures are not surfaced as client errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Credentials do not match", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUsernameInUse):
		return NewHTTPError(http.StatusBadRequest, "Username in use", "USERNAME_IN_USE")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", "USER_NOT_FOUND")
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, "Item not found", "ITEM_NOT_FOUND")
	case model.IsValidationError(err):
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "VALIDATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
