package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/saratovsource/batch/internal/domain"
)

// Delivery implements domain.Delivery for a single Redis-queued message.
type Delivery struct {
	broker         *Broker
	queue          string
	withPriorities bool
	raw            string
	env            envelope
}

func (d *Delivery) Properties() domain.Properties { return d.env.Props }
func (d *Delivery) Payload() []byte                { return d.env.Body }

// Ack removes the delivery from its processing structure.
func (d *Delivery) Ack(ctx context.Context) error {
	if d.withPriorities {
		if err := d.broker.client.HDel(ctx, processingHashKey(d.queue), d.raw).Err(); err != nil {
			return fmt.Errorf("redis: ack: %w", err)
		}
		return nil
	}
	if err := d.broker.client.LRem(ctx, processingListKey(d.queue), 1, d.raw).Err(); err != nil {
		return fmt.Errorf("redis: ack: %w", err)
	}
	return nil
}

// Reject removes the delivery from its processing structure and, when
// requeue is true, first puts it back on its source structure behind the
// messages already waiting there (for a priority queue, behind those of
// the same priority).
func (d *Delivery) Reject(ctx context.Context, requeue bool) error {
	if requeue {
		if d.withPriorities {
			score := priorityScore(d.env.Props.Priority, time.Now())
			if err := d.broker.client.ZAdd(ctx, zsetKey(d.queue), goredis.Z{Score: score, Member: d.raw}).Err(); err != nil {
				return fmt.Errorf("redis: reject requeue: %w", err)
			}
		} else if err := d.broker.client.LPush(ctx, listKey(d.queue), d.raw).Err(); err != nil {
			return fmt.Errorf("redis: reject requeue: %w", err)
		}
	}
	return d.Ack(ctx)
}
