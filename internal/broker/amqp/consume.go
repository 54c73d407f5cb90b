package amqp

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/saratovsource/batch/internal/domain"
	"github.com/saratovsource/batch/internal/observability"
)

var consumerSeq uint64

// Consumer implements domain.Consumer for a declared AMQP queue.
type Consumer struct {
	broker *Broker
	name   string
}

// Consume starts an AMQP consumer and translates deliveries into
// domain.Delivery values. The returned channel closes when ctx is
// canceled; any delivery already received but not yet acted on at that
// point is simply dropped from the channel, left unacknowledged on the
// broker side exactly as spec.md's cancellation semantics require.
func (c *Consumer) Consume(ctx context.Context) (<-chan domain.Delivery, error) {
	tag := fmt.Sprintf("batch-%d", atomic.AddUint64(&consumerSeq, 1))
	deliveries, err := c.broker.channel().Consume(c.name, tag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp consume: %w", err)
	}

	out := make(chan domain.Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				props, err := headersToProps(d)
				if err != nil {
					_ = d.Reject(false)
					continue
				}
				observability.ObserveConsume(c.name)
				select {
				case out <- &Delivery{raw: d, props: props}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
