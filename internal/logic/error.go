package logic

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrBillNotFound    = errors.New("bill not found")
	ErrProductNotFound = errors.New("product not found")
	ErrSigningFailed   = errors.New("failed to sign verification token")
	ErrTokenInvalid    = errors.New("verification token is invalid")
	ErrTokenExpired    = errors.New("verification token has expired")
)
