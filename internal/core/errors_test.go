package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message", Cause: errors.New("boom")}
	if err.Error() != "[TEST_ERROR] test message: boom" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	if !errors.Is(ErrNoData, ErrNoData) {
		t.Error("same error should match")
	}
	if errors.Is(ErrNoData, ErrCollectorFailed) {
		t.Error("different codes should not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrCollectorFailed, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrCollectorFailed.Code {
		t.Error("code not preserved")
	}
	if !errors.Is(wrapped, ErrCollectorFailed) {
		t.Error("wrapped error should match its sentinel")
	}
}

func TestWrapError_ThroughFmt(t *testing.T) {
	inner := WrapError(ErrNoData, errors.New("no bars"))
	outer := fmt.Errorf("fetching history: %w", inner)
	if !errors.Is(outer, ErrNoData) {
		t.Error("sentinel should survive fmt.Errorf wrapping")
	}
}
