package redis

import (
	"context"
	"fmt"

	"github.com/saratovsource/batch/internal/domain"
)

// ExchangeDeclarator implements domain.Declarator[domain.ExchangeBuilder, domain.Exchange].
// Redis has no exchange concept to conflict with, so declaring one is a
// pure bookkeeping no-op: routing still happens through the routing-key
// table a QueueDeclarator.Declare call populates.
type ExchangeDeclarator struct{ b *Broker }

func (e ExchangeDeclarator) Declare(_ context.Context, builder domain.ExchangeBuilder) (domain.Exchange, error) {
	kind := builder.Kind
	if kind == "" {
		kind = domain.ExchangeDirect
	}
	return domain.Exchange{Name: builder.Name, Kind: kind}, nil
}

// QueueDeclarator implements domain.Declarator[domain.QueueBuilder, *Queue].
type QueueDeclarator struct{ b *Broker }

// Declare records the queue's priority attribute and binds every routing
// key the builder names to this queue name, so Publish can find it by
// exchange/routing key alone the way spec.md's broker-agnostic model
// requires.
func (q QueueDeclarator) Declare(ctx context.Context, builder domain.QueueBuilder) (*Queue, error) {
	priorityFlag := "0"
	if builder.WithPriorities {
		priorityFlag = "1"
	}
	if err := q.b.client.HSet(ctx, attrsKey(builder.Name), "priority", priorityFlag).Err(); err != nil {
		return nil, domain.NewError(domain.KindTransport, builder.Name, fmt.Errorf("redis: set queue attrs: %w", err))
	}

	for _, binding := range builder.Bindings {
		if err := q.b.client.Set(ctx, routeKey(binding.Exchange, binding.RoutingKey), builder.Name, 0).Err(); err != nil {
			return nil, domain.NewError(domain.KindTransport, builder.Name, fmt.Errorf("redis: bind route: %w", err))
		}
	}

	return &Queue{Queue: domain.NewQueue(builder), broker: q.b, name: builder.Name}, nil
}

// Queue is the Redis adapter's declared-queue handle.
type Queue struct {
	domain.Queue
	broker *Broker
	name   string
}

// ToConsumer implements domain.ToConsumer.
func (q *Queue) ToConsumer() domain.Consumer {
	return &Consumer{broker: q.broker, name: q.name, withPriorities: q.Queue.WithPriorities}
}
