package repository

import "time"

// --- Parameter Structs ---

type ListBillsParams struct {
	Limit  int
	Offset int
}

// ListMirrorPendingParams selects ledger bills whose mirror copy is still missing.
type ListMirrorPendingParams struct {
	CreatedBefore time.Time
	Limit         int
}

type ListProductsParams struct {
	Limit  int
	Offset int
}
