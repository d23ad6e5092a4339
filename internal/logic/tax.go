package logic

import "github.com/shopspring/decimal"

// TaxLine is the taxable part of a line item.
type TaxLine struct {
	Quantity      int
	Rate          decimal.Decimal
	GSTPercentage decimal.Decimal
}

// Amount is quantity times rate, unrounded.
func (l TaxLine) Amount() decimal.Decimal {
	return l.Rate.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TaxBreakdown holds every component rounded half-up to two places. Total is
// the exact sum of the rounded components.
type TaxBreakdown struct {
	Subtotal decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTaxes splits the GST of items into CGST and SGST halves for an
// intra-state sale or a single IGST amount otherwise.
func ComputeTaxes(items []TaxLine, isIntraState bool) TaxBreakdown {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range items {
		amount := item.Amount()
		subtotal = subtotal.Add(amount)
		tax = tax.Add(amount.Mul(item.GSTPercentage).Shift(-2))
	}

	b := TaxBreakdown{
		Subtotal: subtotal.Round(2),
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
	}
	if isIntraState {
		half := tax.Div(decimal.NewFromInt(2)).Round(2)
		b.CGST = half
		b.SGST = half
	} else {
		b.IGST = tax.Round(2)
	}
	b.Total = b.Subtotal.Add(b.CGST).Add(b.SGST).Add(b.IGST)
	return b
}
