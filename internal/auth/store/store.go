package store

import (
	"context"
	"errors"
	"time"

	"github.com/zaobank/mobile-auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUnavailable marks connectivity failures so callers can
	// distinguish a broken store from a bad request.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the root data access interface. Concrete drivers (sqlite
// today, postgres later) implement this. Sub-repositories keep the
// surface tidy and let services depend on just the slice they use.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. A nil return commits,
	// any error rolls back. This is the recommended way to run
	// multi-step operations that must be atomic (e.g. registration,
	// token cap enforcement).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail supports the duplicate-email registration guard.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Username and email collisions surface as ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser cascades to refresh_tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByID returns a single record by primary key.
	GetRefreshTokenByID(ctx context.Context, id string) (domain.RefreshToken, error)

	// ListLiveRefreshTokens returns every non-revoked, non-expired
	// record. Validation scans these and matches the presented
	// secret against each salted hash.
	ListLiveRefreshTokens(ctx context.Context) ([]domain.RefreshToken, error)

	// ListLiveRefreshTokensByUser returns a user's live records,
	// oldest first, so the per-user cap can evict the oldest.
	ListLiveRefreshTokensByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error)

	// CountLiveRefreshTokensByUser returns the number of live
	// records a user holds.
	CountLiveRefreshTokensByUser(ctx context.Context, userID string) (int, error)

	// TouchRefreshToken sets last_used_at.
	TouchRefreshToken(ctx context.Context, id string) error

	// RevokeRefreshToken sets revoked_at. Revoking an already
	// revoked record is a no-op, not an error.
	RevokeRefreshToken(ctx context.Context, id string) error

	// RevokeAllUserRefreshTokens revokes every live record for a
	// user and reports how many were affected.
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) (int, error)

	// DeleteExpiredRefreshTokens purges records expired or revoked
	// longer ago than the retention period. Housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context, olderThan time.Duration) error
}
