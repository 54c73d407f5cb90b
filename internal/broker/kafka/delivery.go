package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/saratovsource/batch/internal/domain"
)

// Delivery implements domain.Delivery for a single Kafka record.
type Delivery struct {
	broker *Broker
	record *kgo.Record
	props  domain.Properties
}

func (d *Delivery) Properties() domain.Properties { return d.props }
func (d *Delivery) Payload() []byte                { return d.record.Value }

// Ack commits the record's offset.
func (d *Delivery) Ack(ctx context.Context) error {
	if err := d.broker.client.CommitRecords(ctx, d.record); err != nil {
		return fmt.Errorf("kafka: commit: %w", err)
	}
	return nil
}

// Reject commits the offset when requeue is false (discarding the
// record); when requeue is true it withholds the commit so the group
// redelivers the record on its next rebalance.
func (d *Delivery) Reject(ctx context.Context, requeue bool) error {
	if requeue {
		return nil
	}
	return d.Ack(ctx)
}
