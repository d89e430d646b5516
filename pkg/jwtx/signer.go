package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("jwtx: empty signing secret")

// Signer produces signed compact tokens from a claim set.
type Signer interface {
	// Alg returns the JWA algorithm name the signer emits.
	Alg() string

	// Sign serialises and signs the claims.
	Sign(claims Claims) (string, error)
}

// HS256Signer signs tokens with a shared HMAC-SHA256 secret.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 builds an HS256 signer. The secret must be
// non-empty; an HMAC over an empty key would sign anything.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string {
	return jwt.SigningMethodHS256.Alg()
}

// Sign signs the claim set. Claims must carry a coherent lifetime:
// an expiry at or before the issue time is rejected.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if !claims.ExpiresAt.IsZero() && !claims.ExpiresAt.After(claims.IssuedAt) {
		return "", ErrInvalidClaim
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims.toMapClaims())
	return token.SignedString(s.secret)
}
