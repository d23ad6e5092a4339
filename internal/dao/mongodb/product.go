package mongodb

import (
	"context"
	"errors"

	"gst_billing/internal/dao/fields"
	"gst_billing/internal/dao/repository"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewProductDAO(db *mongo.Database, logger *zap.Logger) *ProductDAO {
	return &ProductDAO{
		collection: db.Collection(CollectionProducts),
		logger:     logger.Named("ProductDAO"),
	}
}

type ProductDAO struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func (d *ProductDAO) CreateProduct(ctx context.Context, p *models.Product) (primitive.ObjectID, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := d.collection.InsertOne(ctx, p); err != nil {
		d.logger.Error("CreateProduct: InsertOne failed", zap.Error(err), zap.String("name", p.Name))
		return primitive.NilObjectID, mapWriteError(err)
	}
	return p.ID, nil
}

func (d *ProductDAO) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := d.collection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetProductByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &p, nil
}

func (d *ProductDAO) ListProducts(ctx context.Context, params *repository.ListProductsParams) ([]*models.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldProductName, Value: 1}})
	if params != nil {
		if params.Offset > 0 {
			findOptions.SetSkip(int64(params.Offset))
		}
		if params.Limit > 0 {
			findOptions.SetLimit(int64(params.Limit))
		}
	}

	cursor, err := d.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		d.logger.Error("ListProducts: Find failed", zap.Error(err))
		return nil, err
	}
	products := make([]*models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		d.logger.Error("ListProducts: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return products, nil
}

// UpdateProduct applies the options and returns the product after the update.
func (d *ProductDAO) UpdateProduct(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) (*models.Product, error) {
	update := buildUpdate(repository.ApplyUpdateOptions(opts...))
	if len(update) == 0 {
		return d.GetProductByID(ctx, id)
	}

	var p models.Product
	err := d.collection.FindOneAndUpdate(ctx, bson.M{fields.FieldObjectId: id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("UpdateProduct: FindOneAndUpdate failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes the product and returns what was deleted.
func (d *ProductDAO) DeleteProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := d.collection.FindOneAndDelete(ctx, bson.M{fields.FieldObjectId: id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("DeleteProduct: FindOneAndDelete failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &p, nil
}
