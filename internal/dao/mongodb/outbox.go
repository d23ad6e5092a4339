package mongodb

import (
	"context"
	"time"

	"gst_billing/internal/dao/fields"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewOutboxDAO(db *mongo.Database, logger *zap.Logger) *OutboxDAO {
	return &OutboxDAO{
		outboxCollection: db.Collection(CollectionOutbox),
		logger:           logger.Named("OutboxDAO"),
	}
}

type OutboxDAO struct {
	outboxCollection *mongo.Collection
	logger           *zap.Logger
}

func (d *OutboxDAO) Create(ctx context.Context, message *models.OutboxMessage) error {
	if _, err := d.outboxCollection.InsertOne(ctx, message); err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("topic", message.Topic))
		return err
	}
	return nil
}

// ClaimAndFetchEvents claims up to limit pending messages for this worker.
// Phase 1 finds candidate ids, phase 2 flips them to PROCESSING under a fresh
// claim id with status as the optimistic lock, phase 3 reads back what was won.
func (d *OutboxDAO) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{fields.FieldObjectId: 1})

	cursor, err := d.outboxCollection.Find(ctx, bson.M{fields.FieldStatus: models.OutboxStatusPending}, findOptions)
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: find candidates failed", zap.Error(err))
		return nil, err
	}

	var candidates []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &candidates); err != nil {
		d.logger.Error("ClaimAndFetchEvents: decode candidates failed", zap.Error(err))
		return nil, err
	}
	if len(candidates) == 0 {
		return []*models.OutboxMessage{}, nil
	}

	ids := make([]primitive.ObjectID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	claimID := primitive.NewObjectID()
	updateResult, err := d.outboxCollection.UpdateMany(ctx,
		bson.M{
			fields.FieldObjectId: bson.M{"$in": ids},
			fields.FieldStatus:   models.OutboxStatusPending,
		},
		bson.M{
			"$set": bson.M{
				fields.FieldStatus:    models.OutboxStatusProcessing,
				"claim_id":            claimID,
				fields.FieldUpdatedAt: time.Now(),
			},
		})
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: claim failed", zap.Error(err))
		return nil, err
	}
	// Another worker took them between the two phases.
	if updateResult.ModifiedCount == 0 {
		return []*models.OutboxMessage{}, nil
	}

	claimedCursor, err := d.outboxCollection.Find(ctx, bson.M{"claim_id": claimID})
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: fetch claimed failed", zap.Error(err))
		return nil, err
	}

	var claimed []*models.OutboxMessage
	if err = claimedCursor.All(ctx, &claimed); err != nil {
		d.logger.Error("ClaimAndFetchEvents: decode claimed failed", zap.Error(err))
		return nil, err
	}
	return claimed, nil
}

func (d *OutboxDAO) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	_, err := d.outboxCollection.UpdateOne(ctx,
		bson.M{fields.FieldObjectId: id},
		bson.M{"$set": bson.M{
			fields.FieldStatus: models.OutboxStatusProcessed,
			"processed_at":     time.Now(),
		}})
	return err
}

// IncrementRetry puts the message back to PENDING and records the failure.
func (d *OutboxDAO) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	_, err := d.outboxCollection.UpdateOne(ctx,
		bson.M{fields.FieldObjectId: id},
		bson.M{
			"$set": bson.M{
				fields.FieldStatus: models.OutboxStatusPending,
				"error":            errorMessage,
			},
			"$inc": bson.M{"retries": 1},
		})
	return err
}
