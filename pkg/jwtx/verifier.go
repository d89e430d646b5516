package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: unexpected signing algorithm")
	ErrInvalidSig  = errors.New("jwtx: signature verification failed")
)

// Verifier checks a compact token and returns its claims. The
// signature is verified before any claim is trusted.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Verifier validates HS256 tokens against a shared secret and
// an expected issuer. Now is the clock used for expiry checks and
// defaults to time.Now.
type HS256Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewVerifierHS256(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &HS256Verifier{secret: secret, issuer: issuer, now: time.Now}, nil
}

// WithClock overrides the verifier's time source. Intended for
// tests.
func (v *HS256Verifier) WithClock(now func() time.Time) *HS256Verifier {
	v.now = now
	return v
}

// Verify checks structure, algorithm and signature, in that order,
// then validates expiry and issuer. Claims are only returned once
// every check has passed.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	token, err := parser.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformed
	}
	claims, err := claimsFromMap(mc)
	if err != nil {
		return Claims{}, err
	}

	if err := claims.ValidateExpiry(v.now()); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
