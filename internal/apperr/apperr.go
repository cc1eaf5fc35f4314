// Package apperr carries the HTTP classification of an error from the service layer to
// the central error handler.
package apperr

import (
	"errors"
	"net/http"
)

// Stable error codes of the API payload.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeAITimeout    = "AI_TIMEOUT"
	CodeAIService    = "AI_SERVICE_ERROR"
	CodePersistence  = "PERSISTENCE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error is an error with a status, a stable code and a client-safe message.
// Err is the underlying cause; it is logged but never sent to clients outside development mode.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func Validation(message string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Code: CodeRateLimited, Message: message}
}

func AITimeout(err error) *Error {
	return &Error{Status: http.StatusRequestTimeout, Code: CodeAITimeout, Message: "workout generation timed out, please retry", Err: err}
}

func AIService(err error) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: CodeAIService, Message: "workout generation is temporarily unavailable", Err: err}
}

func Persistence(err error) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: CodePersistence, Message: "storage is temporarily unavailable", Err: err}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error", Err: err}
}
