package domain

import (
	"context"
	"time"
)

// Default retry count, hard timelimit, and priority applied to any Job that
// does not override them via Retryable/Timeoutable/Prioritized.
const (
	DefaultRetries = uint32(3)
	DefaultTimeout = 30 * time.Minute
)

// Job is the contract a unit of background work must satisfy. Name must be
// stable across versions of the binary since it is the key the callback
// registry and the wire envelope both use to route a delivery back to its
// handler.
type Job interface {
	Name() string
	Perform(ctx context.Context, c *Container) error
}

// Retryable lets a job override DefaultRetries.
type Retryable interface {
	Retries() uint32
}

// Timeoutable lets a job override DefaultTimeout. The returned duration
// becomes the delivery's hard timelimit unless the publisher overrides it
// explicitly via Query.Timeout.
type Timeoutable interface {
	Timeout() time.Duration
}

// Prioritized lets a job override DefaultPriority.
type Prioritized interface {
	Priority() Priority
}

// JobMeta is an embeddable struct giving a handwritten Job type all three
// optional overrides at once, defaulting to the package-level constants.
// A job that needs only one override still implements Retryable (etc.)
// directly instead of embedding this.
type JobMeta struct {
	RetriesOverride  *uint32
	TimeoutOverride  *time.Duration
	PriorityOverride *Priority
}

// Retries implements Retryable.
func (m JobMeta) Retries() uint32 {
	if m.RetriesOverride != nil {
		return *m.RetriesOverride
	}
	return DefaultRetries
}

// Timeout implements Timeoutable.
func (m JobMeta) Timeout() time.Duration {
	if m.TimeoutOverride != nil {
		return *m.TimeoutOverride
	}
	return DefaultTimeout
}

// Priority implements Prioritized.
func (m JobMeta) Priority() Priority {
	if m.PriorityOverride != nil {
		return *m.PriorityOverride
	}
	return DefaultPriority
}

// retriesOf returns j.Retries() if j implements Retryable, else the default.
func retriesOf(j Job) uint32 {
	if r, ok := j.(Retryable); ok {
		return r.Retries()
	}
	return DefaultRetries
}

// timeoutOf returns j.Timeout() if j implements Timeoutable, else the default.
func timeoutOf(j Job) time.Duration {
	if t, ok := j.(Timeoutable); ok {
		return t.Timeout()
	}
	return DefaultTimeout
}

// priorityOf returns j.Priority() if j implements Prioritized, else the default.
func priorityOf(j Job) Priority {
	if p, ok := j.(Prioritized); ok {
		return p.Priority()
	}
	return DefaultPriority
}
