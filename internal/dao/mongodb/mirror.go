package mongodb

import (
	"context"
	"errors"

	"gst_billing/internal/dao/fields"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MirrorDAO writes to the regulatory database, a separate database on the same deployment.
func NewMirrorDAO(db *mongo.Database, logger *zap.Logger) *MirrorDAO {
	return &MirrorDAO{
		collection: db.Collection(CollectionMirrorBills),
		logger:     logger.Named("MirrorDAO"),
	}
}

type MirrorDAO struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// UpsertMirrorBill replaces the copy keyed by invoice number, so re-driving a write is idempotent.
func (d *MirrorDAO) UpsertMirrorBill(ctx context.Context, bill *models.MirrorBill) error {
	filter := bson.M{fields.FieldBillInvoiceNumber: bill.InvoiceNumber}
	res, err := d.collection.ReplaceOne(ctx, filter, bill, options.Replace().SetUpsert(true))
	if err != nil {
		d.logger.Error("UpsertMirrorBill: ReplaceOne failed", zap.Error(err), zap.String("invoiceNumber", bill.InvoiceNumber))
		return err
	}
	d.logger.Debug("UpsertMirrorBill",
		zap.String("invoiceNumber", bill.InvoiceNumber),
		zap.Int64("matched", res.MatchedCount),
		zap.Int64("upserted", res.UpsertedCount))
	return nil
}

func (d *MirrorDAO) GetMirrorBillByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.MirrorBill, error) {
	var bill models.MirrorBill
	err := d.collection.FindOne(ctx, bson.M{fields.FieldBillInvoiceNumber: invoiceNumber}).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetMirrorBillByInvoiceNumber: FindOne failed", zap.Error(err), zap.String("invoiceNumber", invoiceNumber))
		return nil, err
	}
	return &bill, nil
}
