package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gst_billing/internal/conf"
	"gst_billing/internal/mq"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends persistent JSON messages through the default exchange, so a
// topic is the name of a durable queue. Queues are declared on first use.
type Publisher struct {
	conn     *amqp.Connection
	logger   *zap.Logger
	mu       sync.Mutex
	channel  *amqp.Channel
	declared map[string]struct{}
}

func NewPublisher(cfg *conf.RabbitMQConfig, logger *zap.Logger) (*Publisher, error) {
	namedLogger := logger.Named("RabbitMQPublisher")

	conn, err := amqp.DialConfig(DSN(cfg), amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			namedLogger.Error("Failed to close connection after channel failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	namedLogger.Info("Connected to RabbitMQ", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))

	return &Publisher{
		conn:     conn,
		channel:  ch,
		logger:   namedLogger,
		declared: make(map[string]struct{}),
	}, nil
}

// Publish is safe for concurrent use; an AMQP channel is not, so calls are serialised.
func (p *Publisher) Publish(ctx context.Context, topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.declared[topic]; !ok {
		if _, err := p.channel.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", topic, err)
		}
		p.declared[topic] = struct{}{}
	}

	err := p.channel.PublishWithContext(ctx, "", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug("Message published", zap.String("topic", topic), zap.Int("bytes", len(body)))
	return nil
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error("Failed to close connection", zap.Error(err))
		}
	}
	p.logger.Info("RabbitMQ connection closed")
}

var _ mq.Publisher = (*Publisher)(nil)
