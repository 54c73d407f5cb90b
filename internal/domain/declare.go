package domain

import "context"

// Declarator idempotently declares a resource against a broker: Input is
// the builder a generator (or a handwritten type) supplies, Output is the
// live handle to the declared resource (e.g. a broker-specific Queue).
// Declaring twice with identical Input must succeed and return an
// equivalent Output; declaring with conflicting arguments must return a
// KindConflict error.
type Declarator[In, Out any] interface {
	Declare(ctx context.Context, builder In) (Out, error)
}

// Declare is implemented by a generated (or handwritten) type that knows
// how to declare itself against some Declarator, returning the declared
// resource of type T.
type Declare[T any] interface {
	DeclareWith(ctx context.Context, d any) (T, error)
}

// Callbacks is implemented by a declared Queue: it lists every job-name ->
// handler binding that the queue expects to route deliveries to, which
// Worker.Declare merges into its Registry.
type Callbacks interface {
	Callbacks() []CallbackEntry
}
