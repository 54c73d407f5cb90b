// Package redis adapts the domain package's broker interfaces to Redis,
// using a sorted set plus a Lua pop script for priority queues (grounded
// on the pack's redis.Script token-bucket idiom) and a reliable
// BRPOPLPUSH list for FIFO queues. Redis has no native exchange/routing
// concept, so routing collapses to a routing-key -> queue name table
// held alongside the queues themselves.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/saratovsource/batch/internal/observability"
)

// Broker owns a single Redis client plus the declared-queue metadata
// needed to route publishes and dequeue with the right strategy.
type Broker struct {
	client *goredis.Client

	popPriorityScript *goredis.Script

	metrics *observability.ConnectionMetrics
	breaker *observability.CircuitBreaker
}

// Dial connects to a Redis URL (as accepted by redis.ParseURL) and
// verifies connectivity with a PING.
func Dial(ctx context.Context, url string) (*Broker, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	return New(ctx, goredis.NewClient(opts))
}

// New wraps an already-constructed client, primarily so tests can point
// it at a miniredis instance.
func New(ctx context.Context, client *goredis.Client) (*Broker, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &Broker{
		client:            client,
		popPriorityScript: goredis.NewScript(popPriorityScript),
		metrics:           observability.NewConnectionMetrics(observability.ConnectionTypeBroker, observability.OperationTypeConsume, client.Options().Addr),
		breaker:           observability.NewCircuitBreaker(5, 30*time.Second, 0.5),
	}, nil
}

// Close releases the underlying client.
func (b *Broker) Close() error {
	return b.client.Close()
}

func (b *Broker) ExchangeDeclarator() ExchangeDeclarator { return ExchangeDeclarator{b: b} }
func (b *Broker) QueueDeclarator() QueueDeclarator       { return QueueDeclarator{b: b} }

// popPriorityScript atomically pops the lowest-score member of a sorted
// set (lowest score sorts first; see keys.go for the score formula) and
// moves it into the processing hash so Ack/Reject can find it again.
const popPriorityScript = `
local queued = redis.call('ZRANGE', KEYS[1], 0, 0)
if #queued == 0 then
  return false
end
local member = queued[1]
redis.call('ZREM', KEYS[1], member)
redis.call('HSET', KEYS[2], member, member)
return member
`
