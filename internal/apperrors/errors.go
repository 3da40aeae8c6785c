package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a structural conflict, e.g. a cyclic account
// hierarchy or an account that still has children or posted activity.
var ErrConflict = errors.New("resource conflict")

// ErrStateConflict indicates an illegal state transition, e.g. posting an
// already-posted journal entry or unposting a system entry.
var ErrStateConflict = errors.New("state conflict")

// ErrStoreUnavailable indicates a transient infrastructure failure; the
// operation left no partial state and is safe to retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// AppError carries an HTTP-ish status code alongside a message and a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
