package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/zaobank/mobile-auth/internal/auth/domain"
	"github.com/zaobank/mobile-auth/internal/auth/store"
	"github.com/zaobank/mobile-auth/pkg/cryptox"
	"github.com/zaobank/mobile-auth/pkg/idx"
	"github.com/zaobank/mobile-auth/pkg/jwtx"
	"github.com/zaobank/mobile-auth/pkg/slogx"
)

var (
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
	ErrUserNotFound   = errors.New("user_not_found")
)

// TokenService mints and validates both halves of the credential
// pair: the HS256 access token and the opaque refresh token.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Store    store.Store

	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// MaxTokensPerUser caps live refresh tokens per user; issuing
	// past the cap revokes the oldest. Zero disables the cap.
	MaxTokensPerUser int

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueAccessToken signs a fresh access token for the user and
// returns it together with its expiry. Entries in extra ride along
// as additional claims; reserved claim names cannot be overridden.
func (s *TokenService) IssueAccessToken(user domain.User, extra map[string]any) (string, time.Time, error) {
	now := s.now()
	claims := jwtx.NewAccessClaims(s.Issuer, user.ID, user.Email, user.DisplayName, s.AccessTTL, now)
	claims.Extra = extra

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt, nil
}

// ValidateAccessToken verifies the token and returns its claims.
func (s *TokenService) ValidateAccessToken(token string) (jwtx.Claims, error) {
	return s.Verifier.Verify(token)
}

// IssuePair mints an access token and a new refresh token for the
// user. The refresh token plaintext is returned exactly once and is
// never stored or logged.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User, deviceInfo string, extra map[string]any) (*domain.TokenPair, error) {
	accessToken, accessExpiresAt, err := s.IssueAccessToken(user, extra)
	if err != nil {
		return nil, err
	}

	opaque, record, err := s.issueRefreshToken(ctx, user.ID, deviceInfo)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     opaque,
		RefreshExpiresAt: record.ExpiresAt,
		TokenType:        "Bearer",
	}, nil
}

func (s *TokenService) issueRefreshToken(ctx context.Context, userID, deviceInfo string) (string, domain.RefreshToken, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.RefreshToken{}, err
	}
	hash, err := cryptox.HashSecret(opaque)
	if err != nil {
		return "", domain.RefreshToken{}, err
	}

	now := s.now()
	record := domain.RefreshToken{
		ID:         idx.New().String(),
		UserID:     userID,
		TokenHash:  hash,
		DeviceInfo: deviceInfo,
		ExpiresAt:  now.Add(s.RefreshTTL),
		CreatedAt:  now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.enforceTokenCap(ctx, tx, userID); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, record)
	})
	if err != nil {
		return "", domain.RefreshToken{}, err
	}
	return opaque, record, nil
}

// enforceTokenCap revokes the user's oldest live tokens until the
// new one fits under the cap.
func (s *TokenService) enforceTokenCap(ctx context.Context, tx store.Tx, userID string) error {
	if s.MaxTokensPerUser <= 0 {
		return nil
	}

	live, err := tx.RefreshTokens().ListLiveRefreshTokensByUser(ctx, userID)
	if err != nil {
		return err
	}
	excess := len(live) - s.MaxTokensPerUser + 1
	for i := 0; i < excess; i++ {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, live[i].ID); err != nil {
			return err
		}
		slogx.FromContext(ctx).Info("refresh token cap reached, revoked oldest",
			slog.String("user_id", userID),
			slog.String("token_id", live[i].ID),
		)
	}
	return nil
}

// ValidateRefreshToken matches the presented opaque value against
// the live records and returns the matching one, marking it used.
// The secret is never stored, so every live salted hash must be
// tried until one verifies.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, opaque string) (domain.RefreshToken, error) {
	record, err := s.matchLive(ctx, opaque)
	if err != nil {
		return domain.RefreshToken{}, err
	}

	if err := s.Store.RefreshTokens().TouchRefreshToken(ctx, record.ID); err != nil {
		return domain.RefreshToken{}, err
	}
	return record, nil
}

func (s *TokenService) matchLive(ctx context.Context, opaque string) (domain.RefreshToken, error) {
	opaque = strings.TrimSpace(opaque)
	if opaque == "" {
		return domain.RefreshToken{}, ErrInvalidRefresh
	}

	live, err := s.Store.RefreshTokens().ListLiveRefreshTokens(ctx)
	if err != nil {
		return domain.RefreshToken{}, err
	}

	for _, record := range live {
		err := cryptox.VerifySecret(opaque, record.TokenHash)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, cryptox.ErrHashMismatch) {
			// Corrupt stored hash. Skip it rather than failing
			// every validation in the system.
			slogx.FromContext(ctx).Warn("unreadable refresh token hash",
				slog.String("token_id", record.ID), "err", err)
		}
	}
	return domain.RefreshToken{}, ErrInvalidRefresh
}

// Refresh redeems a refresh token for a new access token. The
// refresh token is not rotated and stays valid until it expires or
// is revoked.
func (s *TokenService) Refresh(ctx context.Context, opaque string) (string, time.Time, domain.User, error) {
	record, err := s.ValidateRefreshToken(ctx, opaque)
	if err != nil {
		return "", time.Time{}, domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, domain.User{}, ErrUserNotFound
		}
		return "", time.Time{}, domain.User{}, err
	}

	token, expiresAt, err := s.IssueAccessToken(user, nil)
	return token, expiresAt, user, err
}

// RevokeRefreshToken revokes the presented token. Returns false
// when nothing matched; an unknown or already dead token is not an
// error, logout stays idempotent.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, opaque string) (bool, error) {
	record, err := s.matchLive(ctx, opaque)
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			return false, nil
		}
		return false, err
	}

	if err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, record.ID); err != nil {
		return false, err
	}
	return true, nil
}

// RevokeAllUserTokens revokes every live refresh token the user
// holds and reports how many were affected.
func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID string) (int, error) {
	return s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
}
