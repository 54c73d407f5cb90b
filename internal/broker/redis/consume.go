package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/saratovsource/batch/internal/domain"
	"github.com/saratovsource/batch/internal/observability"
)

// brpopTimeout bounds each blocking FIFO pop so the consume loop keeps
// checking ctx.Done() between attempts; priority queues have no blocking
// primitive on a ZSET so they poll on the same cadence instead.
const brpopTimeout = time.Second

// Consumer implements domain.Consumer for a declared Redis queue.
type Consumer struct {
	broker         *Broker
	name           string
	withPriorities bool
}

// Consume polls the queue until ctx is canceled. Priority queues pop via
// popPriorityScript (lowest score first); FIFO queues pop via a reliable
// BRPOPLPUSH into a processing list. A delivery popped but never
// Ack/Reject-ed stays in the processing structure, left for an operator
// or future redelivery sweep to reconcile.
func (c *Consumer) Consume(ctx context.Context) (<-chan domain.Delivery, error) {
	out := make(chan domain.Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			var raw string
			var err error
			if c.withPriorities {
				raw, err = c.popPriority(ctx)
			} else {
				raw, err = c.popFIFO(ctx)
			}
			if errors.Is(err, goredis.Nil) {
				if c.withPriorities {
					select {
					case <-ctx.Done():
						return
					case <-time.After(brpopTimeout):
					}
				}
				continue
			}
			if err != nil {
				slog.Error("redis consume error", slog.String("queue", c.name), slog.Any("err", err))
				continue
			}

			env, err := unmarshalEnvelope(raw)
			if err != nil {
				slog.Error("redis malformed envelope, dropping", slog.String("queue", c.name), slog.Any("err", err))
				c.discard(ctx, raw)
				continue
			}

			observability.ObserveConsume(c.name)
			delivery := &Delivery{broker: c.broker, queue: c.name, withPriorities: c.withPriorities, raw: raw, env: env}
			select {
			case out <- delivery:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Consumer) popPriority(ctx context.Context) (string, error) {
	res, err := c.broker.popPriorityScript.Run(ctx, c.broker.client, []string{zsetKey(c.name), processingHashKey(c.name)}).Result()
	if errors.Is(err, goredis.Nil) {
		return "", goredis.Nil
	}
	if err != nil {
		return "", err
	}
	member, ok := res.(string)
	if !ok {
		return "", goredis.Nil
	}
	return member, nil
}

func (c *Consumer) popFIFO(ctx context.Context) (string, error) {
	return c.broker.client.BRPopLPush(ctx, listKey(c.name), processingListKey(c.name), brpopTimeout).Result()
}

// discard drops a delivery that failed to decode, so it doesn't jam the
// processing structure forever.
func (c *Consumer) discard(ctx context.Context, raw string) {
	if c.withPriorities {
		c.broker.client.HDel(ctx, processingHashKey(c.name), raw)
		return
	}
	c.broker.client.LRem(ctx, processingListKey(c.name), 1, raw)
}
