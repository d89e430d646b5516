package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/zaobank/mobile-auth/internal/auth/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

const refreshTokenColumns = `id, user_id, token_hash, device_info, expires_at, created_at, last_used_at, revoked_at`

func scanRefreshToken(row interface{ Scan(...any) error }) (domain.RefreshToken, error) {
	var (
		t          domain.RefreshToken
		lastUsedAt sql.NullTime
		revokedAt  sql.NullTime
	)
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.DeviceInfo, &t.ExpiresAt, &t.CreatedAt, &lastUsedAt, &revokedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.LastUsedAt = mapNullTimePtr(lastUsedAt)
	t.RevokedAt = mapNullTimePtr(revokedAt)
	return t, nil
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, device_info, expires_at, created_at, last_used_at, revoked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.DeviceInfo, t.ExpiresAt, t.CreatedAt,
		mapOptionalTime(t.LastUsedAt), mapOptionalTime(t.RevokedAt))
	return mapConflict(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByID(ctx context.Context, id string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE id = ?`, id)
	return scanRefreshToken(row)
}

func (r *refreshTokensRepo) listLive(ctx context.Context, query string, args ...any) ([]domain.RefreshToken, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapUnavailable(err)
	}
	defer rows.Close()

	var out []domain.RefreshToken
	for rows.Next() {
		t, err := scanRefreshToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, mapUnavailable(rows.Err())
}

func (r *refreshTokensRepo) ListLiveRefreshTokens(ctx context.Context) ([]domain.RefreshToken, error) {
	return r.listLive(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens
		 WHERE revoked_at IS NULL AND expires_at > ?
		 ORDER BY created_at ASC`,
		time.Now().UTC())
}

func (r *refreshTokensRepo) ListLiveRefreshTokensByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	return r.listLive(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens
		 WHERE user_id = ? AND revoked_at IS NULL AND expires_at > ?
		 ORDER BY created_at ASC`,
		userID, time.Now().UTC())
}

func (r *refreshTokensRepo) CountLiveRefreshTokensByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM refresh_tokens
		 WHERE user_id = ? AND revoked_at IS NULL AND expires_at > ?`,
		userID, time.Now().UTC()).Scan(&n)
	return n, mapUnavailable(err)
}

func (r *refreshTokensRepo) TouchRefreshToken(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET last_used_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return mapUnavailable(err)
	}
	return requireRowAffected(res)
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, id string) error {
	// Leaves revoked_at untouched when already set so the original
	// revocation time survives repeated revokes.
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return mapUnavailable(err)
	}
	// Already-revoked is a no-op; only a missing row is an error.
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		_, getErr := r.GetRefreshTokenByID(ctx, id)
		return getErr
	}
	return nil
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ?
		 WHERE user_id = ? AND revoked_at IS NULL AND expires_at > ?`,
		time.Now().UTC(), userID, time.Now().UTC())
	if err != nil {
		return 0, mapUnavailable(err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ? OR revoked_at < ?`,
		cutoff, cutoff)
	return mapUnavailable(err)
}
