package amqp

import (
	"context"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/saratovsource/batch/internal/domain"
)

// Delivery implements domain.Delivery for a single AMQP message.
type Delivery struct {
	raw   amqp091.Delivery
	props domain.Properties
}

func (d *Delivery) Properties() domain.Properties { return d.props }
func (d *Delivery) Payload() []byte                { return d.raw.Body }

func (d *Delivery) Ack(_ context.Context) error {
	return d.raw.Ack(false)
}

func (d *Delivery) Reject(_ context.Context, requeue bool) error {
	return d.raw.Reject(requeue)
}
