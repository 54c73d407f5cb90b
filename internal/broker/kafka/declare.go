package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kmsg"

	"github.com/saratovsource/batch/internal/domain"
)

// ExchangeDeclarator implements domain.Declarator[domain.ExchangeBuilder, domain.Exchange].
// Kafka has no exchange concept; declaring one is a pure naming no-op,
// routing is always direct by topic name.
type ExchangeDeclarator struct{}

func (ExchangeDeclarator) Declare(_ context.Context, builder domain.ExchangeBuilder) (domain.Exchange, error) {
	kind := builder.Kind
	if kind == "" {
		kind = domain.ExchangeDirect
	}
	return domain.Exchange{Name: builder.Name, Kind: kind}, nil
}

// QueueDeclarator implements domain.Declarator[domain.QueueBuilder, *Queue].
type QueueDeclarator struct{ b *Broker }

const topicAlreadyExistsErrorCode = 36

// Declare maps a queue to a Kafka topic of the same name, creating it if
// absent. A priority-queue declaration is rejected outright: Kafka has
// no per-message priority field to realize it with.
func (q QueueDeclarator) Declare(ctx context.Context, builder domain.QueueBuilder) (*Queue, error) {
	if builder.WithPriorities {
		return nil, domain.NewError(domain.KindConflict, builder.Name,
			fmt.Errorf("kafka: priority queues are not supported, topic %q cannot honor WithPriorities", builder.Name))
	}

	if err := ensureTopic(ctx, q.b, builder.Name); err != nil {
		return nil, domain.NewError(domain.KindTransport, builder.Name, err)
	}

	return &Queue{Queue: domain.NewQueue(builder), broker: q.b, topic: builder.Name}, nil
}

func ensureTopic(ctx context.Context, b *Broker, topic string) error {
	req := kmsg.NewCreateTopicsRequest()
	req.TimeoutMillis = 30000
	topicReq := kmsg.NewCreateTopicsRequestTopic()
	topicReq.Topic = topic
	topicReq.NumPartitions = 1
	topicReq.ReplicationFactor = 1
	req.Topics = append(req.Topics, topicReq)

	rawResp, err := b.client.Request(ctx, &req)
	if err != nil {
		return fmt.Errorf("create topic request: %w", err)
	}
	resp, ok := rawResp.(*kmsg.CreateTopicsResponse)
	if !ok {
		return fmt.Errorf("create topic request: unexpected response type %T", rawResp)
	}
	for _, t := range resp.Topics {
		if t.ErrorCode == 0 || t.ErrorCode == topicAlreadyExistsErrorCode {
			continue
		}
		msg := ""
		if t.ErrorMessage != nil {
			msg = *t.ErrorMessage
		}
		return fmt.Errorf("create topic %q: %s (code %d)", topic, msg, t.ErrorCode)
	}
	slog.Debug("kafka topic ready", slog.String("topic", topic))
	return nil
}

// Queue is the Kafka adapter's declared-queue handle.
type Queue struct {
	domain.Queue
	broker *Broker
	topic  string
}

// ToConsumer implements domain.ToConsumer.
func (q *Queue) ToConsumer() domain.Consumer {
	return &Consumer{broker: q.broker, topic: q.topic}
}
