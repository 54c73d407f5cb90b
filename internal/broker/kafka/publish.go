package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/saratovsource/batch/internal/domain"
	"github.com/saratovsource/batch/internal/observability"
)

// Publish implements domain.Publisher. exchange is ignored (Kafka has no
// exchange concept); routingKey names the target topic directly.
func (b *Broker) Publish(ctx context.Context, exchange, routingKey string, props domain.Properties, body []byte) error {
	if !b.breaker.CanExecute() {
		return domain.NewError(domain.KindTransport, props.Task, fmt.Errorf("kafka produce: circuit breaker open"))
	}

	start := time.Now()
	b.metrics.RecordRequest()

	record := &kgo.Record{
		Topic:   routingKey,
		Key:     []byte(props.ID.String()),
		Value:   body,
		Headers: propsToHeaders(props),
	}

	result := b.client.ProduceSync(ctx, record)
	if err := result.FirstErr(); err != nil {
		b.metrics.RecordFailure(err, time.Since(start))
		b.breaker.RecordFailure()
		return domain.NewError(domain.KindTransport, props.Task, fmt.Errorf("kafka produce: %w", err))
	}

	b.metrics.RecordSuccess(time.Since(start))
	b.breaker.RecordSuccess()
	observability.ObservePublish(props.Task)
	return nil
}
