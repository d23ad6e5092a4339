package dto

import (
	"time"

	"gst_billing/internal/constants"
	"gst_billing/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LineItemInput is one requested line. With ProductID set, absent fields are
// filled from the catalog product.
type LineItemInput struct {
	ProductID     *primitive.ObjectID
	Name          string
	HSNCode       string
	Quantity      int
	Rate          decimal.NullDecimal
	GSTPercentage decimal.NullDecimal
}

func NewCreateBillRequest(buyer models.Party, items []LineItemInput, dueDate *time.Time, actor string) *CreateBillRequest {
	return &CreateBillRequest{
		buyer:   buyer,
		items:   items,
		dueDate: dueDate,
		actor:   actor,
	}
}

type CreateBillRequest struct {
	buyer   models.Party
	items   []LineItemInput
	dueDate *time.Time
	actor   string
}

func (r CreateBillRequest) GetBuyer() models.Party {
	return r.buyer
}

func (r CreateBillRequest) GetItems() []LineItemInput {
	return r.items
}

func (r CreateBillRequest) GetDueDate() *time.Time {
	return r.dueDate
}

func (r CreateBillRequest) GetActor() string {
	if r.actor == "" {
		return models.SystemActor
	}
	return r.actor
}

// CreateBillResult is returned once the ledger write has committed.
type CreateBillResult struct {
	BillID            primitive.ObjectID
	InvoiceNumber     string
	QRCodeURL         string
	MirrorWriteFailed bool
}

type VerificationResult struct {
	Verified bool
	Reason   constants.VerificationReason
}

func (r VerificationResult) Message() string {
	return r.Reason.Message()
}
