package mongodb

import (
	"context"
	"time"

	"gst_billing/internal/dao/fields"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewSequenceDAO(db *mongo.Database, logger *zap.Logger) *SequenceDAO {
	return &SequenceDAO{
		collection: db.Collection(CollectionSequences),
		logger:     logger.Named("SequenceDAO"),
	}
}

type SequenceDAO struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NextValue increments the counter in a single findAndModify so concurrent callers never share a value.
func (d *SequenceDAO) NextValue(ctx context.Context, name string) (int64, error) {
	update := bson.M{
		"$inc": bson.M{fields.FieldSequenceValue: int64(1)},
		"$set": bson.M{fields.FieldUpdatedAt: time.Now()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var seq models.Sequence
	err := d.collection.FindOneAndUpdate(ctx, bson.M{fields.FieldObjectId: name}, update, opts).Decode(&seq)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// Two first-time upserts raced on _id; the loser retries against the existing document.
		err = d.collection.FindOneAndUpdate(ctx, bson.M{fields.FieldObjectId: name}, update, opts).Decode(&seq)
	}
	if err != nil {
		d.logger.Error("NextValue: FindOneAndUpdate failed", zap.Error(err), zap.String("name", name))
		return 0, err
	}
	return seq.Value, nil
}

func (d *SequenceDAO) EnsureAtLeast(ctx context.Context, name string, floor int64) error {
	update := bson.M{
		"$max": bson.M{fields.FieldSequenceValue: floor},
		"$set": bson.M{fields.FieldUpdatedAt: time.Now()},
	}
	_, err := d.collection.UpdateOne(ctx, bson.M{fields.FieldObjectId: name}, update, options.Update().SetUpsert(true))
	if err != nil && mongo.IsDuplicateKeyError(err) {
		_, err = d.collection.UpdateOne(ctx, bson.M{fields.FieldObjectId: name}, update)
	}
	if err != nil {
		d.logger.Error("EnsureAtLeast: UpdateOne failed", zap.Error(err), zap.String("name", name), zap.Int64("floor", floor))
		return err
	}
	return nil
}
