package logic

import (
	"time"

	"gst_billing/internal/constants"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogOption defines a function that configures an AuditLog object.
type AuditLogOption func(*models.AuditLog)

// WithReason is an option to add a reason to an audit log.
func WithReason(reason string) AuditLogOption {
	return func(log *models.AuditLog) {
		if reason != "" {
			log.Reason = reason
		}
	}
}

// NewAuditLog is a shared constructor for creating standardized audit log objects using the Option Pattern.
func NewAuditLog(actor, action, entityType string, entityID primitive.ObjectID, before, after interface{}, opts ...AuditLogOption) *models.AuditLog {
	if actor == "" {
		actor = models.SystemActor
	}
	log := &models.AuditLog{
		ID:         primitive.NewObjectID(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes: map[string]interface{}{
			"before": before,
			"after":  after,
		},
		Timestamp: time.Now(),
	}

	for _, opt := range opts {
		opt(log)
	}

	return log
}

func buildCreateBillAuditLog(actor string, bill *models.Bill) *models.AuditLog {
	var opts []AuditLogOption
	if bill.MirrorWriteFailed {
		opts = append(opts, WithReason("mirror write failed"))
	}
	return NewAuditLog(actor, constants.AuditActionCreateBill, constants.EntityTypeBill, bill.ID, nil, bill, opts...)
}

func buildCreateProductAuditLog(actor string, p *models.Product) *models.AuditLog {
	return NewAuditLog(actor, constants.AuditActionCreateProduct, constants.EntityTypeProduct, p.ID, nil, p)
}

func buildUpdateProductAuditLog(actor string, before, after *models.Product) *models.AuditLog {
	return NewAuditLog(actor, constants.AuditActionUpdateProduct, constants.EntityTypeProduct, before.ID, before, after)
}

func buildDeleteProductAuditLog(actor string, deleted *models.Product) *models.AuditLog {
	return NewAuditLog(actor, constants.AuditActionDeleteProduct, constants.EntityTypeProduct, deleted.ID, deleted, nil)
}
