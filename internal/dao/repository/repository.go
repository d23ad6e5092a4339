package repository

import (
	"context"

	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillRepository is the primary ledger.
type BillRepository interface {
	CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error)
	GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error)
	GetBillByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Bill, error)
	ListBills(ctx context.Context, params *ListBillsParams) ([]*models.Bill, error)
	CountBills(ctx context.Context) (int64, error)
	UpdateBill(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
	ListMirrorPending(ctx context.Context, params *ListMirrorPendingParams) ([]*models.Bill, error)
}

// MirrorRepository is the regulatory copy of the ledger.
type MirrorRepository interface {
	UpsertMirrorBill(ctx context.Context, bill *models.MirrorBill) error
	GetMirrorBillByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.MirrorBill, error)
}

type SequenceRepository interface {
	// NextValue atomically increments the named sequence and returns the new value.
	NextValue(ctx context.Context, name string) (int64, error)
	// EnsureAtLeast raises the sequence to floor if it is lower. It never lowers it.
	EnsureAtLeast(ctx context.Context, name string, floor int64) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, p *models.Product) (primitive.ObjectID, error)
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context, params *ListProductsParams) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type OutboxRepository interface {
	Create(ctx context.Context, message *models.OutboxMessage) error
	ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error)
	MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error
	IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error
}
