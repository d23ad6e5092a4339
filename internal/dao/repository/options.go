package repository

import (
	"time"

	"gst_billing/internal/dao/fields"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateOptions is an exported struct that holds the fields for a MongoDB update operation.
// It is used with the Functional Options pattern.
type UpdateOptions struct {
	SetFields bson.M
	IncFields bson.M
}

// NewUpdateOptions creates a new instance of UpdateOptions.
func NewUpdateOptions() *UpdateOptions {
	return &UpdateOptions{
		SetFields: bson.M{},
		IncFields: bson.M{},
	}
}

// UpdateOption defines a function that can modify the UpdateOptions.
type UpdateOption func(*UpdateOptions)

// ApplyUpdateOptions folds opts into a fresh UpdateOptions.
func ApplyUpdateOptions(opts ...UpdateOption) *UpdateOptions {
	u := NewUpdateOptions()
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WithMirrorSynced clears the mirror failure flag of a bill.
func WithMirrorSynced(at time.Time) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillMirrorWriteFailed] = false
		o.SetFields[fields.FieldBillMirrorSyncedAt] = at
	}
}

// WithMirrorFailed marks a bill's mirror copy as missing.
func WithMirrorFailed() UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillMirrorWriteFailed] = true
	}
}

func WithProductName(name string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldProductName] = name
	}
}

func WithProductHSNCode(code string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldProductHSNCode] = code
	}
}

func WithProductSellingPrice(price primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldProductSellingPrice] = price
	}
}

func WithProductCostPrice(price primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldProductCostPrice] = price
	}
}

func WithProductQuantity(qty int) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldProductQuantity] = qty
	}
}

// WithIncProductQuantity adjusts stock by delta.
func WithIncProductQuantity(delta int) UpdateOption {
	return func(o *UpdateOptions) {
		o.IncFields[fields.FieldProductQuantity] = delta
	}
}

func WithProductGSTPercentage(pct primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldProductGSTPercentage] = pct
	}
}

func WithProductBarcode(barcode string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldProductBarcode] = barcode
	}
}

// WithUpdatedAt is an option to update the updated_at field.
func WithUpdatedAt(t time.Time) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldUpdatedAt] = t
	}
}
