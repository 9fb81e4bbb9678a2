package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Caller errors
	ErrPreconditionViolation ErrorCode = "PRECONDITION_VIOLATION"
	ErrEmptyDeck             ErrorCode = "EMPTY_DECK"
	ErrInvalidIndex          ErrorCode = "INVALID_INDEX"
	ErrInvalidArgument       ErrorCode = "INVALID_ARGUMENT"

	// Harness errors
	ErrConfiguration    ErrorCode = "CONFIGURATION_ERROR"
	ErrUnboundedRetry   ErrorCode = "UNBOUNDED_RETRY"
	ErrExperimentFailed ErrorCode = "EXPERIMENT_FAILED"
	ErrCancelled        ErrorCode = "CANCELLED"

	// System errors
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// ExperimentError is the error type returned by the deck, the classifiers
// and the experiment harness.
type ExperimentError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *ExperimentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ExperimentError) Unwrap() error {
	return e.Err
}

// NewError creates a new ExperimentError
func NewError(code ErrorCode, message string) *ExperimentError {
	return &ExperimentError{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new ExperimentError with a formatted message
func Errorf(code ErrorCode, format string, args ...interface{}) *ExperimentError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WrapError wraps an existing error in an ExperimentError
func WrapError(code ErrorCode, message string, err error) *ExperimentError {
	return &ExperimentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether any ExperimentError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var expErr *ExperimentError
		if !errors.As(err, &expErr) {
			return false
		}
		if expErr.Code == code {
			return true
		}
		err = expErr.Err
	}
	return false
}

// IsPrecondition reports whether err is one of the caller-error codes
// raised by the deck or the classifiers.
func IsPrecondition(err error) bool {
	return IsCode(err, ErrPreconditionViolation) ||
		IsCode(err, ErrEmptyDeck) ||
		IsCode(err, ErrInvalidIndex)
}

// As is a helper function to find the outermost ExperimentError in err's chain
func As(err error, target **ExperimentError) bool {
	if target == nil || err == nil {
		return false
	}
	return errors.As(err, target)
}
