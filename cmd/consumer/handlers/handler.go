package handlers

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler consumes one queue. A nil error acks the delivery; an error
// nacks it for redelivery.
type MessageHandler interface {
	QueueName() string
	Handle(ctx context.Context, d amqp.Delivery) error
}
