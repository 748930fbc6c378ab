package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors
	ErrNoData          = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrEmptySeries     = &Error{Code: "EMPTY_SERIES", Message: "price series is empty"}
	ErrSeriesUnordered = &Error{Code: "SERIES_UNORDERED", Message: "price series timestamps not strictly increasing"}

	// Collector errors
	ErrCollectorFailed = &Error{Code: "COLLECTOR_FAILED", Message: "collector failed"}

	// Strategy errors
	ErrBadWindow     = &Error{Code: "BAD_WINDOW", Message: "window parameter must be at least 1"}
	ErrFrameMismatch = &Error{Code: "FRAME_MISMATCH", Message: "signal frame not aligned with price series"}

	// Optimizer errors
	ErrOptimizerFailed = &Error{Code: "OPTIMIZER_FAILED", Message: "parameter optimization failed"}

	// Report errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "report archive failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
