package worker

import (
	"context"
	"time"

	"gst_billing/internal/conf"
	"gst_billing/internal/dao/repository"
	"gst_billing/internal/mq"

	"go.uber.org/zap"
)

// OutboxProcessor relays bill events from the outbox collection to the broker.
type OutboxProcessor struct {
	outboxRepo repository.OutboxRepository
	publisher  mq.Publisher
	logger     *zap.Logger
	interval   time.Duration
	batchSize  int
}

func NewOutboxProcessor(outboxRepo repository.OutboxRepository, publisher mq.Publisher, logger *zap.Logger, cfg *conf.WorkerConfig) *OutboxProcessor {
	interval := time.Duration(cfg.Outbox.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	batchSize := cfg.Outbox.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxProcessor{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger.Named("OutboxProcessor"),
		interval:   interval,
		batchSize:  batchSize,
	}
}

func (p *OutboxProcessor) Name() string { return "outbox_processor" }

func (p *OutboxProcessor) Start(ctx context.Context) {
	p.logger.Info("Outbox processor started", zap.Duration("interval", p.interval), zap.Int("batchSize", p.batchSize))
	runEvery(ctx, p.interval, p.logger, func(ctx context.Context) {
		p.processEvents(ctx)
	})
}

// processEvents publishes one claimed batch and returns how many were delivered.
func (p *OutboxProcessor) processEvents(ctx context.Context) int {
	claimed, err := p.outboxRepo.ClaimAndFetchEvents(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to claim outbox events", zap.Error(err))
		return 0
	}
	if len(claimed) > 0 {
		p.logger.Info("Claimed events for processing", zap.Int("count", len(claimed)))
	}

	delivered := 0
	for _, event := range claimed {
		if err := p.publisher.Publish(ctx, event.Topic, []byte(event.Payload)); err != nil {
			p.logger.Error("Failed to publish event",
				zap.String("event_id", event.ID.Hex()),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			if err := p.outboxRepo.IncrementRetry(ctx, event.ID, err.Error()); err != nil {
				p.logger.Error("Failed to increment retry for event", zap.String("event_id", event.ID.Hex()), zap.Error(err))
			}
			continue
		}

		if err := p.outboxRepo.MarkAsProcessed(ctx, event.ID); err != nil {
			p.logger.Error("Failed to mark event as processed", zap.String("event_id", event.ID.Hex()), zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

var _ Worker = (*OutboxProcessor)(nil)
