package domain

import "context"

// Binding associates one job type with an exchange and routing key on a
// queue being declared, the runtime shape of the source's
// `bindings: { Exchange = [Job, ...] }` macro input.
type Binding struct {
	Exchange   string
	RoutingKey string
	// NewJob constructs a fresh, zero-valued instance of the bound job type
	// so the queue can populate it from a delivery's payload before calling
	// Perform. It must return a pointer so Codec.Unmarshal can populate it.
	NewJob func() Job
}

// QueueBuilder is the Input a Declarator[QueueBuilder, Queue] consumes.
// WithPriorities mirrors spec.md's priority-queue flag (realized by AMQP's
// x-max-priority, Redis's sorted-set adapter, and rejected outright by the
// Kafka adapter, which has no concept of per-message priority).
type QueueBuilder struct {
	Name           string
	WithPriorities bool
	Exclusive      bool
	Bindings       []Binding
}

// NewQueueBuilder starts a builder for a non-exclusive, non-priority queue
// named name.
func NewQueueBuilder(name string) QueueBuilder {
	return QueueBuilder{Name: name}
}

// Priorities returns a copy of b with WithPriorities set.
func (b QueueBuilder) Priorities(enabled bool) QueueBuilder {
	b.WithPriorities = enabled
	return b
}

// AsExclusive returns a copy of b with Exclusive set.
func (b QueueBuilder) AsExclusive(enabled bool) QueueBuilder {
	b.Exclusive = enabled
	return b
}

// Bind returns a copy of b with an additional binding appended.
func (b QueueBuilder) Bind(exchange, routingKey string, newJob func() Job) QueueBuilder {
	b.Bindings = append(b.Bindings, Binding{Exchange: exchange, RoutingKey: routingKey, NewJob: newJob})
	return b
}

// Queue is the Output of a successful queue declaration. It satisfies
// Callbacks by turning every binding's job factory into a Callback that
// decodes the delivery payload and invokes Perform.
type Queue struct {
	Name           string
	WithPriorities bool
	Exclusive      bool
	Bindings       []Binding
	Codec          Codec
}

// NewQueue builds the declared Queue handle from its builder; broker
// adapters call this at the end of their own Declare implementation once
// the underlying broker resource exists.
func NewQueue(b QueueBuilder) Queue {
	codec := DefaultCodec
	return Queue{Name: b.Name, WithPriorities: b.WithPriorities, Exclusive: b.Exclusive, Bindings: b.Bindings, Codec: codec}
}

// Callbacks implements the Callbacks interface, producing one entry per
// binding.
func (q Queue) Callbacks() []CallbackEntry {
	entries := make([]CallbackEntry, 0, len(q.Bindings))
	for _, binding := range q.Bindings {
		binding := binding
		job := binding.NewJob()
		name := job.Name()
		codec := q.Codec
		if codec == nil {
			codec = DefaultCodec
		}
		entries = append(entries, CallbackEntry{
			Name: name,
			Fn: func(ctx context.Context, payload []byte, c *Container) error {
				instance := binding.NewJob()
				if len(payload) > 0 {
					if err := codec.Unmarshal(payload, instance); err != nil {
						return NewError(KindSerialization, name, err)
					}
				}
				return instance.Perform(ctx, c)
			},
		})
	}
	return entries
}
