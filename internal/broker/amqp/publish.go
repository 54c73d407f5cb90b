package amqp

import (
	"context"
	"fmt"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/saratovsource/batch/internal/domain"
	"github.com/saratovsource/batch/internal/observability"
)

// Publish implements domain.Publisher. It fails fast with a transport
// error while the breaker is open instead of hammering a connection that
// has been failing, per the pack's circuit-breaker idiom.
func (b *Broker) Publish(ctx context.Context, exchange, routingKey string, props domain.Properties, body []byte) error {
	if !b.breaker.CanExecute() {
		return domain.NewError(domain.KindTransport, props.Task, fmt.Errorf("amqp publish: circuit breaker open"))
	}

	start := time.Now()
	b.metrics.RecordRequest()

	err := b.channel().PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		Headers:         propsToHeaders(props),
		ContentType:     props.ContentType,
		ContentEncoding: props.ContentEncoding,
		CorrelationId:   props.ID.String(),
		Priority:        uint8(props.Priority),
		Body:            body,
		DeliveryMode:    amqp091.Persistent,
	})
	if err != nil {
		b.metrics.RecordFailure(err, time.Since(start))
		b.breaker.RecordFailure()
		return fmt.Errorf("amqp publish: %w", err)
	}

	b.metrics.RecordSuccess(time.Since(start))
	b.breaker.RecordSuccess()
	observability.ObservePublish(props.Task)
	return nil
}
