package apperror

import (
	"errors"
	"net/http"
)

// AppError pairs a failure with the HTTP status it maps to and a message that
// is safe to return to API callers.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 404, 409)
	Message string // Caller-facing message
	Err     error  // Underlying cause, if any (not exposed to callers)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StatusOf reports the HTTP status carried by the first AppError in err's
// chain, or 500 when there is none.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
