package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gst_billing/internal/constants"
	"gst_billing/internal/dao/repository"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillEventTopic is the broker topic bill events are relayed to.
type BillEventTopic string

// BillEventPublisher writes bill events to the outbox. It must run inside the
// same transaction as the ledger write it describes.
type BillEventPublisher struct {
	outboxRepo repository.OutboxRepository
	topic      BillEventTopic
}

func NewBillEventPublisher(outboxRepo repository.OutboxRepository, topic BillEventTopic) *BillEventPublisher {
	return &BillEventPublisher{
		outboxRepo: outboxRepo,
		topic:      topic,
	}
}

func (p *BillEventPublisher) PublishBillIssued(ctx context.Context, bill *models.Bill) error {
	payload := map[string]interface{}{
		"action":         constants.BillEventIssued.String(),
		"bill_id":        bill.ID.Hex(),
		"invoice_number": bill.InvoiceNumber,
		"seller_gst":     bill.Seller.GSTNumber,
		"buyer_gst":      bill.Buyer.GSTNumber,
		"total_amount":   bill.TotalAmount.String(),
		"is_intra_state": bill.IsIntraState,
		"created_at":     bill.CreatedAt.UTC().Format(time.RFC3339),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal bill event payload: %w", err)
	}

	outboxMsg := &models.OutboxMessage{
		ID:        primitive.NewObjectID(),
		Topic:     string(p.topic),
		Payload:   string(payloadBytes),
		Status:    models.OutboxStatusPending,
		CreatedAt: time.Now(),
	}

	if err := p.outboxRepo.Create(ctx, outboxMsg); err != nil {
		return fmt.Errorf("failed to create bill event outbox message: %w", err)
	}
	return nil
}
