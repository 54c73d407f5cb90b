package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := NewError(KindTransport, "job.a", errors.New("dial tcp failed"))
	if !errors.Is(err, ErrTransport) {
		t.Fatal("expected errors.Is to match ErrTransport")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatal("did not expect errors.Is to match ErrConflict")
	}
}

func TestError_ExecutionFailureIsDistinguishesSubKind(t *testing.T) {
	timeout := NewExecutionError(ExecutionTimeout, "job.a", nil)
	crash := NewExecutionError(ExecutionCrash, "job.a", nil)

	if !errors.Is(timeout, ErrTimeout) {
		t.Fatal("expected timeout error to match ErrTimeout")
	}
	if errors.Is(timeout, ErrCrash) {
		t.Fatal("did not expect timeout error to match ErrCrash")
	}
	if !errors.Is(crash, ErrCrash) {
		t.Fatal("expected crash error to match ErrCrash")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(KindSerialization, "job.a", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the wrapped cause")
	}
}

func TestError_MessageIncludesJobAndKind(t *testing.T) {
	err := NewExecutionError(ExecutionCrash, "job.a", nil)
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected a non-empty error message")
	}
	if !strings.Contains(msg, `job="job.a"`) || !strings.Contains(msg, string(KindExecutionFailure)) {
		t.Fatalf("expected message to name the job and kind, got %q", msg)
	}
}
