package domain

import (
	"fmt"
	"reflect"
	"sync"
)

// Container is a type-keyed dependency injection map with two phases.
// While Building, constructors are registered with Set; Freeze evaluates
// every constructor exactly once, and any Set call after that panics —
// mirroring the one-way freeze() the worker state machine performs before
// handing the container to a job's Perform method.
type Container struct {
	mu       sync.Mutex
	frozen   bool
	builders map[reflect.Type]func() any
	values   map[reflect.Type]any
}

// NewContainer returns an empty, unfrozen Container.
func NewContainer() *Container {
	return &Container{
		builders: make(map[reflect.Type]func() any),
		values:   make(map[reflect.Type]any),
	}
}

// Set registers a constructor for the type T under key typ. It panics if
// called after Freeze, since a frozen container's value set is immutable.
func Set[T any](c *Container, build func() T) {
	var zero T
	typ := reflect.TypeOf(&zero).Elem()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		panic(fmt.Sprintf("domain: Container.Set(%s) called after Freeze", typ))
	}
	c.builders[typ] = func() any { return build() }
}

// Freeze evaluates every registered constructor exactly once and marks the
// container immutable. Calling Freeze twice is a no-op.
func (c *Container) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return
	}
	for typ, build := range c.builders {
		c.values[typ] = build()
	}
	c.frozen = true
}

// Frozen reports whether Freeze has been called.
func (c *Container) Frozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozen
}

// Get retrieves the value registered for type T. It returns ok=false if no
// constructor was registered for T, or if the container has not been frozen
// yet (a job handler should only ever see a frozen container; this is a
// safety net, not the primary enforcement point).
func Get[T any](c *Container) (T, bool) {
	var zero T
	typ := reflect.TypeOf(&zero).Elem()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.frozen {
		return zero, false
	}
	v, ok := c.values[typ]
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// MustGet is Get but panics when the value is missing, for handlers that
// treat a missing dependency as a programming error rather than a
// recoverable condition.
func MustGet[T any](c *Container) T {
	v, ok := Get[T](c)
	if !ok {
		var zero T
		panic(fmt.Sprintf("domain: Container has no value for %T", zero))
	}
	return v
}
