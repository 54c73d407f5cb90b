package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/saratovsource/batch/internal/domain"
	"github.com/saratovsource/batch/internal/observability"
)

// Consumer implements domain.Consumer for a declared Kafka topic.
type Consumer struct {
	broker *Broker
	topic  string
}

// Consume polls the broker's shared client for records on this topic
// until ctx is canceled. Offsets are committed manually on Ack; a
// Reject with requeue left true simply withholds the commit, so the
// record is redelivered the next time the group rebalances or the
// client restarts rather than on a tighter per-message schedule —
// Kafka has no mechanism for an immediate single-message redelivery.
func (c *Consumer) Consume(ctx context.Context) (<-chan domain.Delivery, error) {
	c.broker.client.AddConsumeTopics(c.topic)

	out := make(chan domain.Delivery)
	go func() {
		defer close(out)
		for {
			if ctx.Err() != nil {
				return
			}
			fetches := c.broker.client.PollFetches(ctx)
			if ctx.Err() != nil {
				return
			}

			if errs := fetches.Errors(); len(errs) > 0 {
				for _, fe := range errs {
					slog.Error("kafka fetch error", slog.String("topic", fe.Topic), slog.Int("partition", int(fe.Partition)), slog.Any("err", fe.Err))
				}
				continue
			}

			fetches.EachRecord(func(record *kgo.Record) {
				props, err := headersToProps(record)
				if err != nil {
					slog.Error("kafka malformed record headers, committing to skip", slog.Any("err", err))
					_ = c.broker.client.CommitRecords(ctx, record)
					return
				}
				observability.ObserveConsume(c.topic)
				delivery := &Delivery{broker: c.broker, record: record, props: props}
				select {
				case out <- delivery:
				case <-ctx.Done():
				}
			})
		}
	}()
	return out, nil
}
