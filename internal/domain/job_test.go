package domain

import (
	"context"
	"testing"
	"time"
)

type plainJob struct{ JobMeta }

func (plainJob) Name() string                                 { return "plain" }
func (plainJob) Perform(_ context.Context, _ *Container) error { return nil }

type overrideJob struct{ JobMeta }

func (overrideJob) Name() string                                 { return "override" }
func (overrideJob) Perform(_ context.Context, _ *Container) error { return nil }

func TestJobMeta_Defaults(t *testing.T) {
	j := plainJob{}
	if got := retriesOf(j); got != DefaultRetries {
		t.Fatalf("retriesOf = %d, want %d", got, DefaultRetries)
	}
	if got := timeoutOf(j); got != DefaultTimeout {
		t.Fatalf("timeoutOf = %v, want %v", got, DefaultTimeout)
	}
	if got := priorityOf(j); got != DefaultPriority {
		t.Fatalf("priorityOf = %v, want %v", got, DefaultPriority)
	}
}

func TestJobMeta_Overrides(t *testing.T) {
	retries := uint32(7)
	timeout := 5 * time.Minute
	priority := PriorityCritical

	j := overrideJob{JobMeta: JobMeta{
		RetriesOverride:  &retries,
		TimeoutOverride:  &timeout,
		PriorityOverride: &priority,
	}}

	if got := retriesOf(j); got != retries {
		t.Fatalf("retriesOf = %d, want %d", got, retries)
	}
	if got := timeoutOf(j); got != timeout {
		t.Fatalf("timeoutOf = %v, want %v", got, timeout)
	}
	if got := priorityOf(j); got != priority {
		t.Fatalf("priorityOf = %v, want %v", got, priority)
	}
}

func TestJob_InterfaceSatisfied(t *testing.T) {
	var _ Job = plainJob{}
	var _ Retryable = plainJob{}
	var _ Timeoutable = plainJob{}
	var _ Prioritized = plainJob{}
}
