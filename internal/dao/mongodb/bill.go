package mongodb

import (
	"context"
	"errors"
	"time"

	"gst_billing/internal/dao/fields"
	"gst_billing/internal/dao/repository"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewBillDAO(db *mongo.Database, logger *zap.Logger) *BillDAO {
	return &BillDAO{
		billsCollection: db.Collection(CollectionBills),
		logger:          logger.Named("BillDAO"),
	}
}

type BillDAO struct {
	billsCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *BillDAO) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	if bill.ID.IsZero() {
		bill.ID = primitive.NewObjectID()
	}
	_, err := d.billsCollection.InsertOne(ctx, bill)
	if err != nil {
		d.logger.Error("CreateBill: InsertOne failed", zap.Error(err), zap.String("invoiceNumber", bill.InvoiceNumber))
		return primitive.NilObjectID, mapWriteError(err)
	}
	return bill.ID, nil
}

// GetBillByID retrieves a single bill by its ID.
func (d *BillDAO) GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	return d.findOne(ctx, bson.M{fields.FieldObjectId: id})
}

func (d *BillDAO) GetBillByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Bill, error) {
	return d.findOne(ctx, bson.M{fields.FieldBillInvoiceNumber: invoiceNumber})
}

func (d *BillDAO) findOne(ctx context.Context, filter bson.M) (*models.Bill, error) {
	var bill models.Bill
	err := d.billsCollection.FindOne(ctx, filter).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("findOne: FindOne failed", zap.Error(err), zap.Any("filter", filter))
		return nil, err
	}
	return &bill, nil
}

// ListBills returns bills newest first. A zero limit returns every bill.
func (d *BillDAO) ListBills(ctx context.Context, params *repository.ListBillsParams) ([]*models.Bill, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: -1}})
	if params != nil {
		if params.Offset > 0 {
			findOptions.SetSkip(int64(params.Offset))
		}
		if params.Limit > 0 {
			findOptions.SetLimit(int64(params.Limit))
		}
	}

	cursor, err := d.billsCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		d.logger.Error("ListBills: Find failed", zap.Error(err))
		return nil, err
	}
	bills := make([]*models.Bill, 0)
	if err := cursor.All(ctx, &bills); err != nil {
		d.logger.Error("ListBills: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return bills, nil
}

func (d *BillDAO) CountBills(ctx context.Context) (int64, error) {
	n, err := d.billsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		d.logger.Error("CountBills: CountDocuments failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}

// UpdateBill updates a single bill using functional options.
func (d *BillDAO) UpdateBill(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	update := buildUpdate(repository.ApplyUpdateOptions(opts...))
	if len(update) == 0 {
		return nil
	}

	res, err := d.billsCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	if err != nil {
		d.logger.Error("UpdateBill: UpdateOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMirrorPending returns bills still flagged as missing from the mirror, oldest first.
func (d *BillDAO) ListMirrorPending(ctx context.Context, params *repository.ListMirrorPendingParams) ([]*models.Bill, error) {
	filter := bson.M{
		fields.FieldBillMirrorWriteFailed: true,
		fields.FieldCreatedAt:             bson.M{"$lt": params.CreatedBefore},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}})
	if params.Limit > 0 {
		findOptions.SetLimit(int64(params.Limit))
	}

	cursor, err := d.billsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		d.logger.Error("ListMirrorPending: Find failed", zap.Error(err))
		return nil, err
	}
	bills := make([]*models.Bill, 0)
	if err := cursor.All(ctx, &bills); err != nil {
		d.logger.Error("ListMirrorPending: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return bills, nil
}

// buildUpdate turns collected options into an update document. updated_at is
// always set alongside other fields.
func buildUpdate(u *repository.UpdateOptions) bson.M {
	update := bson.M{}
	if len(u.SetFields) > 0 || len(u.IncFields) > 0 {
		u.SetFields[fields.FieldUpdatedAt] = time.Now()
		update["$set"] = u.SetFields
	}
	if len(u.IncFields) > 0 {
		update["$inc"] = u.IncFields
	}
	return update
}
