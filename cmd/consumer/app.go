package main

import (
	"context"

	"gst_billing/cmd/consumer/handlers"
	"gst_billing/internal/mq/rabbitmq"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// provideHandlers collects all individual MessageHandlers into a slice.
func provideHandlers(billIssuedHandler *handlers.BillIssuedHandler) []handlers.MessageHandler {
	return []handlers.MessageHandler{
		billIssuedHandler,
	}
}

// ConsumerApp holds the components of the consumer application.
type ConsumerApp struct {
	consumer *rabbitmq.Consumer
	logger   *zap.Logger
}

// NewConsumerApp creates a new consumer application and registers all handlers.
func NewConsumerApp(consumer *rabbitmq.Consumer, logger *zap.Logger, handlers []handlers.MessageHandler) *ConsumerApp {
	// Register all handlers passed by Wire
	for _, h := range handlers {
		logger.Info("Registering handler", zap.String("queue", h.QueueName()))
		consumer.RegisterHandler(h.QueueName(), h.Handle)
	}

	return &ConsumerApp{
		consumer: consumer,
		logger:   logger,
	}
}

// Run consumes until the context is cancelled or the consumer fails.
func (a *ConsumerApp) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting RabbitMQ consumer")
		return a.consumer.Start(gCtx)
	})

	return g.Wait()
}
