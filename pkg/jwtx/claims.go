package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes applied when the deployment does not
// configure its own.
const (
	DefaultAccessTokenTTL  = 30 * 24 * time.Hour
	DefaultRefreshTokenTTL = 90 * 24 * time.Hour
)

var (
	ErrExpired      = errors.New("jwtx: token expired")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claim set")
)

// Claims is the access-token claim set. Reserved fields map to the
// registered JWT claim names; Extra carries any additional
// application claims and is flattened into the payload at sign time.
// Reserved names always win over Extra entries of the same name.
type Claims struct {
	Issuer      string
	Subject     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Email       string
	DisplayName string
	Extra       map[string]any
}

// NewAccessClaims builds the claim set for a freshly issued access
// token. The expiry is derived from now so callers can inject a
// clock in tests.
func NewAccessClaims(issuer, subject, email, displayName string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		Issuer:      issuer,
		Subject:     subject,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
		Email:       email,
		DisplayName: displayName,
	}
}

// ValidateExpiry reports ErrExpired when the token's expiry has
// passed. Tokens without an expiry never expire.
func (c Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt.IsZero() {
		return nil
	}
	if now.After(c.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

// ValidateIssuer reports ErrIssuer when the token's issuer does not
// match the expected value. An empty expected issuer disables the
// check.
func (c Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// reserved claim names, never surfaced through Extra.
var reservedClaims = map[string]struct{}{
	"iss":   {},
	"sub":   {},
	"iat":   {},
	"exp":   {},
	"email": {},
	"name":  {},
}

func (c Claims) toMapClaims() jwt.MapClaims {
	m := jwt.MapClaims{}
	for k, v := range c.Extra {
		m[k] = v
	}
	m["iss"] = c.Issuer
	m["sub"] = c.Subject
	m["iat"] = c.IssuedAt.Unix()
	m["exp"] = c.ExpiresAt.Unix()
	if c.Email != "" {
		m["email"] = c.Email
	}
	if c.DisplayName != "" {
		m["name"] = c.DisplayName
	}
	return m
}

func claimsFromMap(m jwt.MapClaims) (Claims, error) {
	var c Claims

	iss, err := m.GetIssuer()
	if err != nil {
		return Claims{}, ErrInvalidClaim
	}
	c.Issuer = iss

	sub, err := m.GetSubject()
	if err != nil {
		return Claims{}, ErrInvalidClaim
	}
	c.Subject = sub

	if iat, err := m.GetIssuedAt(); err != nil {
		return Claims{}, ErrInvalidClaim
	} else if iat != nil {
		c.IssuedAt = iat.Time
	}

	if exp, err := m.GetExpirationTime(); err != nil {
		return Claims{}, ErrInvalidClaim
	} else if exp != nil {
		c.ExpiresAt = exp.Time
	}

	if v, ok := m["email"]; ok {
		s, ok := v.(string)
		if !ok {
			return Claims{}, ErrInvalidClaim
		}
		c.Email = s
	}
	if v, ok := m["name"]; ok {
		s, ok := v.(string)
		if !ok {
			return Claims{}, ErrInvalidClaim
		}
		c.DisplayName = s
	}

	for k, v := range m {
		if _, ok := reservedClaims[k]; ok {
			continue
		}
		if c.Extra == nil {
			c.Extra = map[string]any{}
		}
		c.Extra[k] = v
	}
	return c, nil
}
