package authsdk

import "time"

// User is the public profile payload returned by login, refresh and
// the me endpoint.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// LoginRequest is the body of POST /v1/auth/login. Username also
// accepts the account email.
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	DeviceInfo string `json:"device_info,omitempty"`
}

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	DeviceInfo  string `json:"device_info,omitempty"`
}

// TokenResponse is returned by login and register: the full
// credential pair plus the profile snapshot.
type TokenResponse struct {
	Token            string    `json:"token"`
	TokenExpiresAt   time.Time `json:"token_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	TokenType        string    `json:"token_type"`
	User             User      `json:"user"`
}

// RefreshRequest is the body of POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse carries the new access token only. The refresh
// token is not rotated and is deliberately absent.
type RefreshResponse struct {
	Token          string    `json:"token"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
	TokenType      string    `json:"token_type"`
	User           User      `json:"user"`
}

// LogoutRequest is the body of POST /v1/auth/logout. AllDevices
// requires a bearer token and revokes every live refresh token of
// that user; otherwise the presented refresh token is revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
	AllDevices   bool   `json:"all_devices,omitempty"`
}

// LogoutResponse reports how many refresh tokens were revoked.
// Logout is idempotent, so Revoked may be zero.
type LogoutResponse struct {
	Message string `json:"message"`
	Revoked int    `json:"revoked"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks carries per-dependency status for readyz.
type HealthChecks struct {
	Database string `json:"database"`
}
