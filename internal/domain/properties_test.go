package domain

import (
	"context"
	"strings"
	"testing"
)

type propsJob struct{ JobMeta }

func (propsJob) Name() string                                 { return "props-job" }
func (propsJob) Perform(_ context.Context, _ *Container) error { return nil }

func TestNewProperties(t *testing.T) {
	job := propsJob{}
	props := NewProperties(job)

	if props.Task != "props-job" {
		t.Fatalf("Task = %q, want %q", props.Task, "props-job")
	}
	if props.Lang != "go" {
		t.Fatalf("Lang = %q, want %q", props.Lang, "go")
	}
	if props.ID.String() == "" {
		t.Fatal("expected a generated ID")
	}
	if props.Timelimit.Hard == nil || *props.Timelimit.Hard != DefaultTimeout {
		t.Fatalf("Timelimit.Hard = %v, want %v", props.Timelimit.Hard, DefaultTimeout)
	}
	if props.Priority != DefaultPriority {
		t.Fatalf("Priority = %v, want %v", props.Priority, DefaultPriority)
	}
	if props.ContentType != "application/json" {
		t.Fatalf("ContentType = %q, want application/json", props.ContentType)
	}
	if props.ContentEncoding != "utf-8" {
		t.Fatalf("ContentEncoding = %q, want utf-8", props.ContentEncoding)
	}
}

func TestProperties_String_OmitsAbsentIDs(t *testing.T) {
	props := NewProperties(propsJob{})
	s := props.String()
	if !strings.Contains(s, "root=none") || !strings.Contains(s, "parent=none") || !strings.Contains(s, "group=none") {
		t.Fatalf("expected absent passthrough ids to render as none, got %q", s)
	}
}

func TestNewProperties_UniqueIDs(t *testing.T) {
	a := NewProperties(propsJob{})
	b := NewProperties(propsJob{})
	if a.ID == b.ID {
		t.Fatal("expected two calls to NewProperties to produce distinct ids")
	}
}
