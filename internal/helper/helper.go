package helper

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MoneyToDecimal128 stores d with exactly two decimal places.
func MoneyToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.StringFixed(2))
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to Decimal128: %w", d.String(), err)
	}
	return v, nil
}

// DecimalToDecimal128 stores d without changing its scale.
func DecimalToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to Decimal128: %w", d.String(), err)
	}
	return v, nil
}

// Decimal128ToDecimal converts a stored value back for arithmetic. NaN and Inf are rejected.
func Decimal128ToDecimal(d primitive.Decimal128) (decimal.Decimal, error) {
	if d.IsNaN() || d.IsInf() != 0 {
		return decimal.Zero, fmt.Errorf("cannot convert special Decimal128 value %s", d.String())
	}
	v, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse Decimal128 %s: %w", d.String(), err)
	}
	return v, nil
}

// CompareDecimal128 compares two primitive.Decimal128 values numerically,
// so 1180 and 1180.00 are equal.
// It returns:
// -1 if d1 < d2
// 0 if d1 == d2
// 1 if d1 > d2
func CompareDecimal128(d1, d2 primitive.Decimal128) (int, error) {
	a, err := Decimal128ToDecimal(d1)
	if err != nil {
		return 0, err
	}
	b, err := Decimal128ToDecimal(d2)
	if err != nil {
		return 0, err
	}
	return a.Cmp(b), nil
}

// ParseObjectID returns false for anything that is not a 24 character hex id.
func ParseObjectID(s string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
