// Package kafka adapts the domain package's broker interfaces to Kafka
// (and Kafka-API-compatible brokers such as Redpanda) via franz-go.
// Kafka has no notion of a per-message priority, so this adapter only
// supports FIFO queues: declaring one with WithPriorities set is a
// startup-time domain.KindConflict error, exactly as spec.md requires.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/saratovsource/batch/internal/observability"
)

// Broker owns a single franz-go client used for both producing and
// consuming; Kafka topics stand in for queues (one topic per declared
// queue name).
type Broker struct {
	client  *kgo.Client
	groupID string

	metrics *observability.ConnectionMetrics
	breaker *observability.CircuitBreaker
}

// Dial connects to the given seed brokers under the given consumer
// group. groupID may be empty for a publish-only Broker.
func Dial(brokers []string, groupID string) (*Broker, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no seed brokers provided")
	}

	tracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	kot := kotel.NewKotel(kotel.WithTracer(tracer))

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.WithHooks(kot.Hooks()...),
		kgo.DisableAutoCommit(),
	}
	if groupID != "" {
		opts = append(opts, kgo.ConsumerGroup(groupID))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka: new client: %w", err)
	}

	if err := client.Ping(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka: ping: %w", err)
	}

	addr := brokers[0]
	return &Broker{
		client:  client,
		groupID: groupID,
		metrics: observability.NewConnectionMetrics(observability.ConnectionTypeBroker, observability.OperationTypeConsume, addr),
		breaker: observability.NewCircuitBreaker(5, 30*time.Second, 0.5),
	}, nil
}

// Close flushes in-flight production and releases the client.
func (b *Broker) Close() error {
	b.client.Close()
	return nil
}

func (b *Broker) ExchangeDeclarator() ExchangeDeclarator { return ExchangeDeclarator{} }
func (b *Broker) QueueDeclarator() QueueDeclarator       { return QueueDeclarator{b: b} }
