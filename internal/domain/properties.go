package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Timelimit is a soft/hard duration pair carried on Properties. Only Hard is
// enforced by the worker supervisor; Soft is informational (a job handler
// may consult it to decide when to start wrapping up voluntarily). A nil
// field means "absent" — Go's stand-in for the source's Option<Duration>.
type Timelimit struct {
	Soft *time.Duration
	Hard *time.Duration
}

// Properties travels alongside a job's serialized payload and is the only
// part of a delivery the core itself interprets (beyond the payload bytes
// routed to the registered callback).
type Properties struct {
	Lang string
	Task string
	ID   uuid.UUID

	// RootID, ParentID, and Group are opaque passthrough fields: the core
	// never reads or interprets them, only forwards them so that an
	// application can reconstruct job lineage on its own.
	RootID   *uuid.UUID
	ParentID *uuid.UUID
	Group    *uuid.UUID

	Timelimit Timelimit
	Priority  Priority

	ContentType     string
	ContentEncoding string
}

// NewProperties builds the Properties for a fresh dispatch of job, seeding a
// new random ID and the job's declared (or default) timeout/priority.
func NewProperties(job Job) Properties {
	hard := timeoutOf(job)
	return Properties{
		Lang:            "go",
		Task:            job.Name(),
		ID:              uuid.New(),
		Timelimit:       Timelimit{Hard: &hard},
		Priority:        priorityOf(job),
		ContentType:     "application/json",
		ContentEncoding: "utf-8",
	}
}

// String renders Properties for logging without dumping the full UUID
// pointers of RootID/ParentID/Group, matching the source's custom Debug
// impl that prints "none" for absent optional ids.
func (p Properties) String() string {
	root := "none"
	if p.RootID != nil {
		root = p.RootID.String()
	}
	parent := "none"
	if p.ParentID != nil {
		parent = p.ParentID.String()
	}
	group := "none"
	if p.Group != nil {
		group = p.Group.String()
	}
	return fmt.Sprintf("Properties{task=%s id=%s root=%s parent=%s group=%s priority=%s}",
		p.Task, p.ID, root, parent, group, p.Priority)
}
