package mongodb

import (
	"context"
	"fmt"

	"gst_billing/internal/dao/fields"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, g *Gateway) error {
	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{
			coll: g.Ledger().Collection(CollectionBills),
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: fields.FieldBillInvoiceNumber, Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: fields.FieldBillMirrorWriteFailed, Value: 1}, {Key: fields.FieldCreatedAt, Value: 1}},
				},
				{
					Keys: bson.D{{Key: fields.FieldCreatedAt, Value: -1}},
				},
			},
		},
		{
			coll: g.Mirror().Collection(CollectionMirrorBills),
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: fields.FieldBillInvoiceNumber, Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			coll: g.Ledger().Collection(CollectionOutbox),
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: fields.FieldStatus, Value: 1}, {Key: fields.FieldCreatedAt, Value: 1}}},
				{Keys: bson.D{{Key: "claim_id", Value: 1}}},
			},
		},
	}

	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", s.coll.Name(), err)
		}
	}
	return nil
}
