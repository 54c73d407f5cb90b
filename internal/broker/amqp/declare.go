package amqp

import (
	"context"
	"errors"
	"fmt"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/saratovsource/batch/internal/domain"
)

// ExchangeDeclarator implements domain.Declarator[domain.ExchangeBuilder, domain.Exchange].
type ExchangeDeclarator struct{ b *Broker }

// Declare idempotently declares an exchange. Redeclaring with the same
// arguments succeeds; redeclaring with conflicting arguments surfaces
// RabbitMQ's 406 PRECONDITION_FAILED as a domain.KindConflict error.
func (e ExchangeDeclarator) Declare(_ context.Context, builder domain.ExchangeBuilder) (domain.Exchange, error) {
	kind := builder.Kind
	if kind == "" {
		kind = domain.ExchangeDirect
	}
	if err := e.b.channel().ExchangeDeclare(builder.Name, string(kind), true, false, false, false, nil); err != nil {
		return domain.Exchange{}, classifyDeclareErr(builder.Name, err)
	}
	return domain.Exchange{Name: builder.Name, Kind: kind}, nil
}

// QueueDeclarator implements domain.Declarator[domain.QueueBuilder, *Queue].
type QueueDeclarator struct{ b *Broker }

// Declare idempotently declares a queue, setting x-max-priority when the
// builder asks for priorities, and binds it to every exchange/routing key
// the builder names.
func (q QueueDeclarator) Declare(_ context.Context, builder domain.QueueBuilder) (*Queue, error) {
	var args amqp091.Table
	if builder.WithPriorities {
		args = amqp091.Table{"x-max-priority": int32(9)}
	}

	declared, err := q.b.channel().QueueDeclare(builder.Name, true, false, builder.Exclusive, false, args)
	if err != nil {
		return nil, classifyDeclareErr(builder.Name, err)
	}

	for _, binding := range builder.Bindings {
		if err := q.b.channel().QueueBind(declared.Name, binding.RoutingKey, binding.Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("amqp: bind %s to %s: %w", declared.Name, binding.Exchange, err)
		}
	}

	return &Queue{Queue: domain.NewQueue(builder), broker: q.b, name: declared.Name}, nil
}

// Queue is the AMQP adapter's declared-queue handle: it carries the
// domain.Queue (for Callbacks()) plus enough broker state to start
// consuming from it.
type Queue struct {
	domain.Queue
	broker *Broker
	name   string
}

// ToConsumer implements domain.ToConsumer.
func (q *Queue) ToConsumer() domain.Consumer {
	return &Consumer{broker: q.broker, name: q.name}
}

func classifyDeclareErr(name string, err error) error {
	var amqpErr *amqp091.Error
	if errors.As(err, &amqpErr) && amqpErr.Code == amqp091.PreconditionFailed {
		return domain.NewError(domain.KindConflict, name, err)
	}
	return domain.NewError(domain.KindTransport, name, err)
}
