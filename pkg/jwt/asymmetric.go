package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type rsaSigner struct {
	key *rsa.PrivateKey
}

func (s *rsaSigner) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
}

// NewAsymmetric creates an RS256 Manager. Tokens are signed with privateKey
// and verified with publicKey only.
func NewAsymmetric(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string, opts ...ManagerOption) (*Manager, error) {
	switch {
	case privateKey == nil:
		return nil, errors.New("private key cannot be nil")
	case publicKey == nil:
		return nil, errors.New("public key cannot be nil")
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	}
	return newManager(&rsaSigner{key: privateKey}, issuer, keyFunc, []string{jwt.SigningMethodRS256.Alg()}, opts), nil
}

// NewAsymmetricFromPEM is NewAsymmetric for PEM-encoded keys.
func NewAsymmetricFromPEM(privatePEM, publicPEM []byte, issuer string, opts ...ManagerOption) (*Manager, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return NewAsymmetric(privateKey, publicKey, issuer, opts...)
}

// NewAsymmetricFromFiles reads both PEM keys from disk.
func NewAsymmetricFromFiles(privateKeyFile, publicKeyFile, issuer string, opts ...ManagerOption) (*Manager, error) {
	privatePEM, err := os.ReadFile(privateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}
	publicPEM, err := os.ReadFile(publicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	return NewAsymmetricFromPEM(privatePEM, publicPEM, issuer, opts...)
}
