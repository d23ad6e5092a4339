package fields

const (
	FieldObjectId  = "_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldStatus    = "status"

	FieldBillInvoiceNumber     = "invoice_number"
	FieldBillMirrorWriteFailed = "mirror_write_failed"
	FieldBillMirrorSyncedAt    = "mirror_synced_at"
	FieldBillQRCodeURL         = "qr_code_url"

	FieldMirrorLocalDBID  = "local_db_id"
	FieldMirrorRecordedAt = "recorded_at"

	FieldProductName          = "name"
	FieldProductHSNCode       = "hsn_code"
	FieldProductSellingPrice  = "selling_price"
	FieldProductCostPrice     = "cost_price"
	FieldProductQuantity      = "quantity"
	FieldProductGSTPercentage = "gst_percentage"
	FieldProductBarcode       = "barcode"

	FieldSequenceValue = "value"
)
