package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Party is either side of an invoice.
type Party struct {
	Name      string `bson:"name" json:"name"`
	GSTNumber string `bson:"gst_number" json:"gstNumber"`
	Address   string `bson:"address" json:"address"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	StateCode string `bson:"state_code,omitempty" json:"stateCode,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
}

// LineItem is copied by value from the catalog when the bill is issued.
type LineItem struct {
	ProductID     *primitive.ObjectID  `bson:"product_id,omitempty" json:"productId,omitempty"`
	Name          string               `bson:"name" json:"name"`
	HSNCode       string               `bson:"hsn_code" json:"hsnCode"`
	Quantity      int                  `bson:"quantity" json:"quantity"`
	Rate          primitive.Decimal128 `bson:"rate" json:"rate"`
	GSTPercentage primitive.Decimal128 `bson:"gst_percentage" json:"gstPercentage"`
	Amount        primitive.Decimal128 `bson:"amount" json:"amount"`
}

type Taxes struct {
	CGST primitive.Decimal128 `bson:"cgst" json:"cgst"`
	SGST primitive.Decimal128 `bson:"sgst" json:"sgst"`
	IGST primitive.Decimal128 `bson:"igst" json:"igst"`
}

// BillDetails is the part of a bill shared by the ledger and the mirror copy.
type BillDetails struct {
	InvoiceNumber string               `bson:"invoice_number" json:"invoiceNumber"`
	CreatedAt     time.Time            `bson:"created_at" json:"createdAt"`
	DueDate       *time.Time           `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	Seller        Party                `bson:"seller" json:"seller"`
	Buyer         Party                `bson:"buyer" json:"buyer"`
	Items         []LineItem           `bson:"items" json:"items"`
	Subtotal      primitive.Decimal128 `bson:"subtotal" json:"subtotal"`
	Taxes         Taxes                `bson:"taxes" json:"taxes"`
	TotalAmount   primitive.Decimal128 `bson:"total_amount" json:"totalAmount"`
	IsIntraState  bool                 `bson:"is_intra_state" json:"isIntraState"`
	QRCodeURL     string               `bson:"qr_code_url" json:"qrCodeUrl"`
}

// Bill is the ledger record. MirrorWriteFailed stays true until the mirror copy is confirmed.
type Bill struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BillDetails       `bson:",inline"`
	MirrorWriteFailed bool       `bson:"mirror_write_failed" json:"mirrorWriteFailed"`
	MirrorSyncedAt    *time.Time `bson:"mirror_synced_at,omitempty" json:"mirrorSyncedAt,omitempty"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updatedAt"`
}

// MirrorBill is the copy held by the regulatory mirror.
type MirrorBill struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LocalDBID   primitive.ObjectID `bson:"local_db_id" json:"localDbId"`
	BillDetails `bson:",inline"`
	RecordedAt  time.Time `bson:"recorded_at" json:"recordedAt"`
}

// NewMirrorBill builds the mirror copy of a ledger bill.
func NewMirrorBill(b *Bill, recordedAt time.Time) *MirrorBill {
	return &MirrorBill{
		LocalDBID:   b.ID,
		BillDetails: b.BillDetails,
		RecordedAt:  recordedAt,
	}
}
