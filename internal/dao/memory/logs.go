package memory

import (
	"context"
	"time"

	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogs returns the audit log repository backed by this store.
func (s *Store) AuditLogs() *AuditLogStore {
	return &AuditLogStore{s: s}
}

type AuditLogStore struct {
	s *Store
}

func (a *AuditLogStore) Create(_ context.Context, log *models.AuditLog) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.auditLogs = append(a.s.auditLogs, *log)
	return nil
}

// Entries returns a copy of every recorded audit log.
func (a *AuditLogStore) Entries() []models.AuditLog {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return append([]models.AuditLog(nil), a.s.auditLogs...)
}

// Outbox returns the outbox repository backed by this store.
func (s *Store) Outbox() *OutboxStore {
	return &OutboxStore{s: s}
}

type OutboxStore struct {
	s *Store
}

func (o *OutboxStore) Create(_ context.Context, message *models.OutboxMessage) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}
	o.s.outbox = append(o.s.outbox, *message)
	return nil
}

func (o *OutboxStore) ClaimAndFetchEvents(_ context.Context, limit int) ([]*models.OutboxMessage, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	claimID := primitive.NewObjectID()
	now := time.Now()
	claimed := make([]*models.OutboxMessage, 0)
	for i := range o.s.outbox {
		if len(claimed) >= limit {
			break
		}
		m := &o.s.outbox[i]
		if m.Status != models.OutboxStatusPending {
			continue
		}
		m.Status = models.OutboxStatusProcessing
		m.ClaimID = claimID
		m.UpdatedAt = &now
		c := *m
		claimed = append(claimed, &c)
	}
	return claimed, nil
}

func (o *OutboxStore) MarkAsProcessed(_ context.Context, id primitive.ObjectID) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	now := time.Now()
	for i := range o.s.outbox {
		if o.s.outbox[i].ID == id {
			o.s.outbox[i].Status = models.OutboxStatusProcessed
			o.s.outbox[i].ProcessedAt = &now
		}
	}
	return nil
}

func (o *OutboxStore) IncrementRetry(_ context.Context, id primitive.ObjectID, errorMessage string) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for i := range o.s.outbox {
		if o.s.outbox[i].ID == id {
			o.s.outbox[i].Status = models.OutboxStatusPending
			o.s.outbox[i].Error = errorMessage
			o.s.outbox[i].Retries++
		}
	}
	return nil
}

// Messages returns a copy of every outbox message.
func (o *OutboxStore) Messages() []models.OutboxMessage {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	return append([]models.OutboxMessage(nil), o.s.outbox...)
}
