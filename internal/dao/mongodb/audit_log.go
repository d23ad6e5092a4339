package mongodb

import (
	"context"

	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func NewAuditLogDAO(db *mongo.Database, logger *zap.Logger) *AuditLogDAO {
	return &AuditLogDAO{
		collection: db.Collection(CollectionAuditLogs),
		logger:     logger.Named("AuditLogDAO"),
	}
}

type AuditLogDAO struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// Create never fails the caller; audit write errors are logged only.
func (d *AuditLogDAO) Create(ctx context.Context, log *models.AuditLog) error {
	if _, err := d.collection.InsertOne(ctx, log); err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err),
			zap.String("action", log.Action),
			zap.Stringer("entityID", log.EntityID))
	}
	return nil
}
