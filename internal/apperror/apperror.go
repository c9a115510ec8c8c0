// Package apperror defines the application's error taxonomy.
//
// EXPECTED FAILURES ARE VALUES, NOT PANICS:
// A duplicate email or a wrong password is normal control flow, not an
// exceptional condition. Each expected failure is a sentinel error that
// callers inspect with errors.Is(), and an *AppError wrapper that carries
// the human-readable message. The HTTP layer maps sentinels to status
// codes; the service layer never sees an HTTP code.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
)

type AppError struct {
	Err     error  // sentinel identifying the error kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// DuplicateEmail — registration with an email that already belongs to a
// user. Fully recoverable; the caller may retry with a different address.
func DuplicateEmail(email string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("email %s is already in use", email),
		Field:   "email",
	}
}

// InvalidCredentials — login with an email/password pair that matches no
// user. The message is deliberately identical for "unknown email" and
// "wrong password" so login can't be used to probe which emails exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "invalid email or password",
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// AnalyzerFailed wraps a failure from the external AI analyzer. The
// upstream message is surfaced verbatim — the operation is simply
// abandoned and the user may retry by re-invoking the action.
func AnalyzerFailed(err error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("meal analysis failed: %v", err),
	}
}

// NotConfigured reports a missing piece of configuration (e.g. no analyzer
// API key). Raised before any external call is attempted.
func NotConfigured(message string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
	}
}
