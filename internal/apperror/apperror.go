// Package apperror defines the error kinds every ShareIt operation can fail with.
//
// Each kind is a sentinel error. Constructors wrap the sentinel in an AppError
// that carries the human-readable message shown to API clients, so callers
// check the kind with errors.Is and read the message with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrDuplicate    = errors.New("duplicate")
	ErrAccessDenied = errors.New("access denied")
	ErrUnknownState = errors.New("unknown state")
)

type AppError struct {
	Err     error  // kind sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity by resource name and id.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

// NotFoundf reports an entity the caller is not allowed to see. It renders
// exactly like a missing entity.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Duplicate reports a unique-constraint violation, e.g. an email that is
// already registered.
func Duplicate(resource, field, value string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("%s with %s %s already exists", resource, field, value),
		Field:   field,
	}
}

// AccessDenied returns an AppError for an entity the caller can see but may
// not act on in its current state.
func AccessDenied(message string) *AppError {
	return &AppError{
		Err:     ErrAccessDenied,
		Message: message,
	}
}

// UnknownState reports an unparseable booking state filter.
func UnknownState(raw string) *AppError {
	return &AppError{
		Err:     ErrUnknownState,
		Message: "Unknown state: " + raw,
		Field:   "state",
	}
}
