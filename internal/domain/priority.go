package domain

// Priority ranks a job relative to others on the same priority-enabled
// queue. Higher values are dispatched first; within the same priority
// delivery order follows FIFO.
type Priority uint8

// The full range of priorities a job may declare, mirroring the original
// framework's five-level scale.
const (
	PriorityTrivial  Priority = 1
	PriorityLow      Priority = 3
	PriorityNormal   Priority = 5
	PriorityHigh     Priority = 7
	PriorityCritical Priority = 9
)

// DefaultPriority is used for any job that does not implement Prioritized.
const DefaultPriority = PriorityNormal

// String renders the priority using its named level, or "unknown" for
// values that don't line up with one of the five named levels (a job may
// set anything in range 1-9).
func (p Priority) String() string {
	switch p {
	case PriorityTrivial:
		return "trivial"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Valid reports whether p is in the usable 1-9 range.
func (p Priority) Valid() bool { return p >= 1 && p <= 9 }
