package domain

import (
	"context"
	"errors"
	"testing"
)

func handlerA(_ context.Context, _ []byte, _ *Container) error { return nil }
func handlerB(_ context.Context, _ []byte, _ *Container) error { return nil }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("job.a", handlerA); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	fn, ok := r.Lookup("job.a")
	if !ok {
		t.Fatal("expected job.a to be registered")
	}
	if fn == nil {
		t.Fatal("expected a non-nil callback")
	}
}

func TestRegistry_SameFunctionTwiceIsNotAConflict(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("job.a", handlerA); err != nil {
		t.Fatalf("first Register err: %v", err)
	}
	if err := r.Register("job.a", handlerA); err != nil {
		t.Fatalf("re-registering the same function should not conflict: %v", err)
	}
}

func TestRegistry_DifferentFunctionSameNameConflicts(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("job.a", handlerA); err != nil {
		t.Fatalf("first Register err: %v", err)
	}
	err := r.Register("job.a", handlerB)
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != KindConflict {
		t.Fatalf("expected KindConflict, got %v", err)
	}
}

func TestRegistry_EmptyNameIsMissingName(t *testing.T) {
	r := NewRegistry()
	err := r.Register("", handlerA)
	if !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
}

func TestRegistry_Merge(t *testing.T) {
	r := NewRegistry()
	err := r.Merge([]CallbackEntry{
		{Name: "job.a", Fn: handlerA},
		{Name: "job.b", Fn: handlerB},
	})
	if err != nil {
		t.Fatalf("Merge err: %v", err)
	}
	if len(r.Names()) != 2 {
		t.Fatalf("expected 2 registered names, got %d", len(r.Names()))
	}
}

func TestRegistry_MergeStopsAtFirstConflict(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("job.a", handlerA); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	err := r.Merge([]CallbackEntry{
		{Name: "job.a", Fn: handlerB},
		{Name: "job.c", Fn: handlerA},
	})
	if err == nil {
		t.Fatal("expected Merge to surface the conflict")
	}
	if _, ok := r.Lookup("job.c"); ok {
		t.Fatal("expected Merge to stop before registering job.c")
	}
}
