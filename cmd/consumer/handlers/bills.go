package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gst_billing/internal/constants"
	"gst_billing/internal/logic"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// BillIssuedHandler consumes bill.issued events and makes sure the mirror
// holds a copy of every issued bill. Bills whose mirror write failed during
// the request are repaired here without waiting for the reconciler tick.
type BillIssuedHandler struct {
	billLogic logic.BillLogic
	topic     logic.BillEventTopic
	logger    *zap.Logger
}

func NewBillIssuedHandler(billLogic logic.BillLogic, topic logic.BillEventTopic, logger *zap.Logger) *BillIssuedHandler {
	return &BillIssuedHandler{
		billLogic: billLogic,
		topic:     topic,
		logger:    logger.Named("BillIssuedHandler"),
	}
}

// QueueName returns the name of the queue this handler subscribes to.
func (h *BillIssuedHandler) QueueName() string {
	return string(h.topic)
}

type billEventPayload struct {
	Action        string `json:"action"`
	BillID        string `json:"bill_id"`
	InvoiceNumber string `json:"invoice_number"`
}

// Handle processes the incoming message.
func (h *BillIssuedHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	// 1. Parse the message payload.
	var payload billEventPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		h.logger.Error("Failed to unmarshal message body", zap.Error(err), zap.ByteString("body", d.Body))
		return nil // Poison pill, ACK and remove.
	}

	// 2. Only issuance events are relevant.
	if payload.Action != constants.BillEventIssued.String() {
		h.logger.Debug("Ignoring bill event", zap.String("action", payload.Action))
		return nil
	}
	if payload.InvoiceNumber == "" {
		h.logger.Error("Bill event without invoice number", zap.String("bill_id", payload.BillID))
		return nil
	}

	// 3. Repair the mirror copy if it is still missing.
	repaired, err := h.billLogic.ReconcileBill(ctx, payload.InvoiceNumber)
	if err != nil {
		if errors.Is(err, logic.ErrBillNotFound) {
			h.logger.Warn("Bill from event not found in ledger", zap.String("invoiceNumber", payload.InvoiceNumber))
			return nil
		}
		return fmt.Errorf("failed to reconcile bill %s: %w", payload.InvoiceNumber, err)
	}

	if repaired {
		h.logger.Info("Mirror copy repaired", zap.String("invoiceNumber", payload.InvoiceNumber))
	}
	return nil
}

var _ MessageHandler = (*BillIssuedHandler)(nil)
