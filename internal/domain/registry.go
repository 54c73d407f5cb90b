package domain

import (
	"context"
	"reflect"
)

// Callback is the thunk a registered job name dispatches to: the raw
// payload bytes off the wire plus the frozen Container, matching the
// executor's invocation shape exactly.
type Callback func(ctx context.Context, payload []byte, c *Container) error

// CallbackEntry pairs a job name with its callback, the shape a Queue's
// Callbacks() method returns and Worker.Declare merges into the Registry.
type CallbackEntry struct {
	Name string
	Fn   Callback
}

// Registry maps job names to their callbacks. Two registrations under the
// same name are only a conflict if they are not the same function — the Go
// analogue of the source's `previous as fn(_,_)->_ != callback as fn(_,_)->_`
// check, done here via reflect.Value.Pointer() identity comparison.
type Registry struct {
	callbacks map[string]Callback
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[string]Callback)}
}

// Register adds name -> fn, returning a KindConflict *Error if name is
// already registered to a different function.
func (r *Registry) Register(name string, fn Callback) error {
	if name == "" {
		return ErrMissingName
	}
	if existing, ok := r.callbacks[name]; ok {
		if funcPointer(existing) != funcPointer(fn) {
			return NewError(KindConflict, name, nil)
		}
		return nil
	}
	r.callbacks[name] = fn
	return nil
}

// Merge registers every entry, stopping at the first conflict.
func (r *Registry) Merge(entries []CallbackEntry) error {
	for _, e := range entries {
		if err := r.Register(e.Name, e.Fn); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the callback registered for name, if any.
func (r *Registry) Lookup(name string) (Callback, bool) {
	fn, ok := r.callbacks[name]
	return fn, ok
}

// Names returns every registered job name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.callbacks))
	for n := range r.callbacks {
		names = append(names, n)
	}
	return names
}

func funcPointer(fn Callback) uintptr {
	return reflect.ValueOf(fn).Pointer()
}
