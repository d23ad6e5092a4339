package logic

import (
	"testing"
	"time"

	"gst_billing/pkg/jwt"
	"gst_billing/pkg/snowflake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenSigner(t *testing.T, secret string, clock *time.Time) *TokenSigner {
	t.Helper()
	now := func() time.Time { return *clock }
	manager, err := jwt.NewSymmetric([]byte(secret), "gst_billing", jwt.WithClock(now))
	require.NoError(t, err)
	ids, err := snowflake.NewGenerator(1)
	require.NoError(t, err)

	s := NewTokenSigner(manager, ids)
	s.now = now
	return s
}

func TestTokenSigner_RoundTrip(t *testing.T) {
	clock := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	s := newTestTokenSigner(t, "round-trip-secret", &clock)

	claims := VerificationClaims{
		InvoiceNumber: "INV-2024-03-007",
		SellerGST:     "GTHUJ25632512355",
		TotalAmount:   "1180.00",
		Timestamp:     clock.Format(time.RFC3339Nano),
	}
	token, err := s.Sign(claims)
	require.NoError(t, err)

	clock = clock.AddDate(1, 0, 0).Add(-time.Second)
	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, claims, *got)

	clock = clock.Add(2 * time.Second)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSigner_IdenticalClaimsGiveDistinctTokens(t *testing.T) {
	clock := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	s := newTestTokenSigner(t, "secret", &clock)

	claims := VerificationClaims{InvoiceNumber: "INV-2024-03-001", SellerGST: "X", TotalAmount: "1.00", Timestamp: "t"}
	a, err := s.Sign(claims)
	require.NoError(t, err)
	b, err := s.Sign(claims)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenSigner_VerifyFailures(t *testing.T) {
	clock := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	s := newTestTokenSigner(t, "secret-a", &clock)
	other := newTestTokenSigner(t, "secret-b", &clock)

	token, err := s.Sign(VerificationClaims{InvoiceNumber: "INV-2024-03-001", SellerGST: "G", TotalAmount: "10.00"})
	require.NoError(t, err)
	missingInvoice, err := s.Sign(VerificationClaims{SellerGST: "G", TotalAmount: "10.00"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"three garbage segments", "a.b.c"},
		{"foreign secret", token},
		{"missing invoice number", missingInvoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := s
			if tt.name == "foreign secret" {
				verifier = other
			}
			_, err := verifier.Verify(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenSigner_TamperedTokenFails(t *testing.T) {
	clock := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	s := newTestTokenSigner(t, "tamper-secret", &clock)

	token, err := s.Sign(VerificationClaims{InvoiceNumber: "INV-2024-03-011", SellerGST: "G", TotalAmount: "99.00"})
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		b := []byte(token)
		b[i] ^= 0x01
		_, err := s.Verify(string(b))
		assert.Error(t, err, "byte %d", i)
	}
}
