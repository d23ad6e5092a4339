package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"gst_billing/internal/conf"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HandlerFunc processes one delivery. A nil error acks it. An error requeues
// it once; a delivery that fails again after redelivery is dropped.
type HandlerFunc func(ctx context.Context, delivery amqp.Delivery) error

var errChannelClosed = errors.New("rabbitmq: delivery channel closed")

// Consumer reads from durable queues, one channel per queue.
type Consumer struct {
	conn     *amqp.Connection
	logger   *zap.Logger
	handlers map[string]HandlerFunc
	prefetch int
}

func NewConsumer(cfg *conf.RabbitMQConfig, logger *zap.Logger) (*Consumer, func(), error) {
	namedLogger := logger.Named("RabbitMQConsumer")

	conn, err := amqp.Dial(DSN(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	namedLogger.Info("Connected to RabbitMQ", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))

	c := &Consumer{
		conn:     conn,
		logger:   namedLogger,
		handlers: make(map[string]HandlerFunc),
		prefetch: 1,
	}
	return c, c.Close, nil
}

func (c *Consumer) RegisterHandler(queueName string, handler HandlerFunc) {
	c.handlers[queueName] = handler
}

// Start consumes every registered queue until ctx is cancelled or one queue fails.
func (c *Consumer) Start(ctx context.Context) error {
	if len(c.handlers) == 0 {
		return errors.New("rabbitmq: no handlers registered")
	}

	g, gCtx := errgroup.WithContext(ctx)
	for queueName, handler := range c.handlers {
		queueName, handler := queueName, handler
		g.Go(func() error {
			return c.consumeQueue(gCtx, queueName, handler)
		})
	}
	return g.Wait()
}

func (c *Consumer) consumeQueue(ctx context.Context, queueName string, handler HandlerFunc) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel for %s: %w", queueName, err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos on %s: %w", queueName, err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queueName, err)
	}

	c.logger.Info("Consuming queue", zap.String("queue", q.Name))

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("%w: %s", errChannelClosed, q.Name)
			}
			c.dispatch(ctx, q.Name, d, handler)
		case <-ctx.Done():
			c.logger.Info("Stopping consumer", zap.String("queue", q.Name))
			return nil
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, queue string, d amqp.Delivery, handler HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic recovered in message handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.String("queue", queue),
			)
			_ = d.Nack(false, false)
		}
	}()

	if err := handler(ctx, d); err != nil {
		requeue := !d.Redelivered
		c.logger.Error("Handler failed",
			zap.Error(err),
			zap.String("queue", queue),
			zap.Bool("requeue", requeue),
		)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) Close() {
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close connection", zap.Error(err))
		}
	}
}
