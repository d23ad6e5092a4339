package noop

import (
	"context"

	"gst_billing/internal/mq"

	"go.uber.org/zap"
)

// Publisher drops every message. It stands in for RabbitMQ when no broker is configured.
type Publisher struct {
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger.Named("NoopPublisher")}
}

func (p *Publisher) Publish(_ context.Context, topic string, body []byte) error {
	p.logger.Debug("message dropped", zap.String("topic", topic), zap.Int("bytes", len(body)))
	return nil
}

func (p *Publisher) Close() {}

var _ mq.Publisher = (*Publisher)(nil)
