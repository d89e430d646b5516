package domain

import "time"

// TokenPair is what a successful login or registration returns: the
// signed access token and the opaque refresh token paired with it.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	TokenType        string    `json:"token_type"` // always "Bearer"
}

// RefreshToken models a stored refresh token record. The opaque
// secret itself is never stored, only its salted argon2 hash.
type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string // argon2 encoded
	DeviceInfo string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	LastUsedAt *time.Time
	RevokedAt  *time.Time
}

// Live reports whether the token can still redeem new access
// tokens: not revoked and not past its expiry.
func (t RefreshToken) Live(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
