package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	HSNCode       string               `bson:"hsn_code" json:"hsnCode"`
	SellingPrice  primitive.Decimal128 `bson:"selling_price" json:"sellingPrice"`
	CostPrice     primitive.Decimal128 `bson:"cost_price" json:"costPrice"`
	Quantity      int                  `bson:"quantity" json:"quantity"`
	GSTPercentage primitive.Decimal128 `bson:"gst_percentage" json:"gstPercentage"`
	Barcode       string               `bson:"barcode,omitempty" json:"barcode,omitempty"`
	CreatedAt     time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updatedAt"`
}
