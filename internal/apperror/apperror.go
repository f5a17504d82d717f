// Package apperror defines the application's error taxonomy.
//
// Services return these domain errors; the HTTP layer maps them to status
// codes and a stable machine-readable kind in one place (handler/response.go).
// Nothing below the handler layer knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers check them with errors.Is, which walks the wrap
// chain via AppError.Unwrap.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// AppError pairs a sentinel with a human-readable message (and optionally the
// offending field). The message is what API clients see; the sentinel is what
// code branches on.
type AppError struct {
	Err     error  // sentinel from the list above
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound is deliberately vague: it is returned both when no such resource
// exists and when it exists but belongs to someone else, so a non-owner can't
// probe for valid IDs.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Field:   id,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCredentials returns the single login failure error. Unknown email
// and wrong password produce this same value so a caller can't tell which
// accounts exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// Unauthenticated is returned by the access gate when the bearer token is
// missing, malformed, expired, or fails signature verification.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}
