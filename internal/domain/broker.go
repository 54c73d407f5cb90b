package domain

import "context"

// Delivery is the minimal surface the core consumes off a broker adapter
// for a single message. Ack/Reject are idempotent from the core's point of
// view: the worker supervisor calls exactly one of them per delivery.
type Delivery interface {
	Properties() Properties
	Payload() []byte
	Ack(ctx context.Context) error
	Reject(ctx context.Context, requeue bool) error
}

// Consumer yields deliveries for a declared queue. The returned channel is
// closed when ctx is canceled; in-flight deliveries at that point are left
// unacknowledged, matching the consumer loop's cancellation semantics.
type Consumer interface {
	Consume(ctx context.Context) (<-chan Delivery, error)
}

// ToConsumer adapts a declared queue into a Consumer, letting broker
// adapters keep their declared-resource type distinct from the consuming
// type while still satisfying the worker supervisor's dependency.
type ToConsumer interface {
	ToConsumer() Consumer
}

// Publisher is the broker-level collaborator Query.Send forwards a
// serialized job to.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, props Properties, body []byte) error
}
