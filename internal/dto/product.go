package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name          string
	HSNCode       string
	SellingPrice  decimal.Decimal
	CostPrice     decimal.Decimal
	Quantity      int
	GSTPercentage decimal.Decimal
	Barcode       string
	Actor         string
}

// UpdateProductRequest carries only the fields to change; nil and invalid values are left alone.
type UpdateProductRequest struct {
	Name          *string
	HSNCode       *string
	SellingPrice  decimal.NullDecimal
	CostPrice     decimal.NullDecimal
	Quantity      *int
	GSTPercentage decimal.NullDecimal
	Barcode       *string
	Actor         string
}
