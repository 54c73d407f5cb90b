package domain

import (
	"context"
	"fmt"
	"time"
)

// Query is the publish-side builder: NewQuery(job) seeds a fresh id,
// default exchange/routing key, and the job's own priority/timeout, all
// overridable via the chainable setters before Send forwards the result to
// a Publisher.
type Query struct {
	job   Job
	props Properties

	exchange   string
	routingKey string
	retries    uint32

	codec Codec
}

// NewQuery seeds a Query from job's name, declared priority, and declared
// timeout, defaulting exchange and routing key to the job's own name (a
// direct-exchange-per-job convention a caller may override).
func NewQuery(job Job) *Query {
	props := NewProperties(job)
	return &Query{
		job:        job,
		props:      props,
		exchange:   job.Name(),
		routingKey: job.Name(),
		retries:    retriesOf(job),
		codec:      DefaultCodec,
	}
}

// Dispatch is shorthand for NewQuery, matching the source's free function
// `dsl::job()`.
func Dispatch(job Job) *Query { return NewQuery(job) }

// Exchange overrides the destination exchange.
func (q *Query) Exchange(name string) *Query {
	q.exchange = name
	return q
}

// RoutingKey overrides the routing key.
func (q *Query) RoutingKey(key string) *Query {
	q.routingKey = key
	return q
}

// Timeout overrides the hard timelimit that would otherwise come from the
// job's own Timeout() (or DefaultTimeout).
func (q *Query) Timeout(hard time.Duration) *Query {
	q.props.Timelimit.Hard = &hard
	return q
}

// SoftTimeout sets the informational soft timelimit.
func (q *Query) SoftTimeout(soft time.Duration) *Query {
	q.props.Timelimit.Soft = &soft
	return q
}

// Priority overrides the job's declared priority.
func (q *Query) Priority(p Priority) *Query {
	q.props.Priority = p
	return q
}

// Retries is accepted for parity with the source DSL; the worker
// supervisor does not itself retry (spec.md §7), so this value is only
// informational metadata a broker's own redelivery policy may consult.
func (q *Query) Retries(n uint32) *Query {
	q.retries = n
	return q
}

// WithCodec overrides the codec used to serialize the job payload.
func (q *Query) WithCodec(c Codec) *Query {
	q.codec = c
	return q
}

// RetriesValue returns the retry count currently set on the query.
func (q *Query) RetriesValue() uint32 { return q.retries }

// Properties returns the Properties that will be sent alongside the
// payload, useful for tests and for callers that want to log before Send.
func (q *Query) Properties() Properties { return q.props }

// Send serializes the job and forwards it to pub.
func (q *Query) Send(ctx context.Context, pub Publisher) error {
	body, err := q.codec.Marshal(q.job)
	if err != nil {
		return NewError(KindSerialization, q.job.Name(), err)
	}
	if err := pub.Publish(ctx, q.exchange, q.routingKey, q.props, body); err != nil {
		return NewError(KindTransport, q.job.Name(), fmt.Errorf("publish: %w", err))
	}
	return nil
}
