package constants

const (
	// InvoicePrefix starts every invoice number: INV-{yyyy}-{mm}-{seq}.
	InvoicePrefix = "INV"
	// InvoiceSequence names the counter backing invoice numbers.
	InvoiceSequence = "invoice"

	EntityTypeBill    = "bill"
	EntityTypeProduct = "product"

	AuditActionCreateBill    = "CREATE_BILL"
	AuditActionCreateProduct = "CREATE_PRODUCT"
	AuditActionUpdateProduct = "UPDATE_PRODUCT"
	AuditActionDeleteProduct = "DELETE_PRODUCT"
)

// BillEventAction is carried in outbox payloads for bill events.
type BillEventAction string

const (
	BillEventIssued       BillEventAction = "issued"
)

func (a BillEventAction) String() string {
	return string(a)
}
