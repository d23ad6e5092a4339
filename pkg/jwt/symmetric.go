package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned when an HS256 Manager is built without a key.
var ErrEmptySecret = errors.New("JWT secret cannot be empty")

type hmacSigner []byte

func (s hmacSigner) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s))
}

// NewSymmetric creates an HS256 Manager that signs and verifies with secret.
func NewSymmetric(secret []byte, issuer string, opts ...ManagerOption) (*Manager, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
	return newManager(hmacSigner(secret), issuer, keyFunc, []string{jwt.SigningMethodHS256.Alg()}, opts), nil
}
