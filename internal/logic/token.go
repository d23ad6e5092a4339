package logic

import (
	"errors"
	"fmt"
	"time"

	"gst_billing/pkg/jwt"
	"gst_billing/pkg/snowflake"

	"github.com/mitchellh/mapstructure"
)

// TokenValidityYears is how long a bill's QR code stays verifiable.
const TokenValidityYears = 1

// VerificationClaims is what a bill's QR token binds. Timestamp keeps tokens
// of otherwise identical bills distinct.
type VerificationClaims struct {
	InvoiceNumber string `mapstructure:"invoiceNumber"`
	SellerGST     string `mapstructure:"sellerGST"`
	TotalAmount   string `mapstructure:"totalAmount"`
	Timestamp     string `mapstructure:"timestamp"`
}

// TokenIssuer signs and verifies bill tokens.
type TokenIssuer interface {
	Sign(claims VerificationClaims) (string, error)
	Verify(token string) (*VerificationClaims, error)
}

type TokenSigner struct {
	manager *jwt.Manager
	ids     *snowflake.Generator
	now     func() time.Time
}

func NewTokenSigner(manager *jwt.Manager, ids *snowflake.Generator) *TokenSigner {
	return &TokenSigner{
		manager: manager,
		ids:     ids,
		now:     time.Now,
	}
}

func (s *TokenSigner) Sign(claims VerificationClaims) (string, error) {
	payload := map[string]interface{}{}
	if err := mapstructure.Decode(claims, &payload); err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	id, err := s.ids.GetIDString()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := s.now()
	return s.manager.Generate(payload,
		jwt.WithIssuedAt(now),
		jwt.WithExpiresAt(now.AddDate(TokenValidityYears, 0, 0)),
		jwt.WithID(id),
	)
}

// Verify returns ErrTokenExpired for tokens past their validity and
// ErrTokenInvalid for anything else that fails.
func (s *TokenSigner) Verify(token string) (*VerificationClaims, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	payload, err := s.manager.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	var claims VerificationClaims
	if err := mapstructure.Decode(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.InvoiceNumber == "" {
		return nil, fmt.Errorf("%w: missing invoice number", ErrTokenInvalid)
	}
	return &claims, nil
}
