package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zaobank/mobile-auth/internal/auth/domain"
	"github.com/zaobank/mobile-auth/internal/auth/store"
	"github.com/zaobank/mobile-auth/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, username, email string) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		DisplayName:  username,
		PasswordHash: "$argon2id$fake",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedToken(t *testing.T, s *Store, userID string, expiresIn time.Duration) domain.RefreshToken {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	rt := domain.RefreshToken{
		ID:         idx.New().String(),
		UserID:     userID,
		TokenHash:  "$argon2id$fake-" + idx.New().String(),
		DeviceInfo: "test-device",
		ExpiresAt:  now.Add(expiresIn),
		CreatedAt:  now,
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(context.Background(), rt))
	return rt
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice", "alice@example.com")

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, byID.Username)

	byName, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	byEmail, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice", "alice@example.com")

	now := time.Now().UTC()
	dupUsername := domain.User{
		ID: idx.New().String(), Username: "alice", Email: "other@example.com",
		PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
	}
	require.ErrorIs(t, s.Users().CreateUser(ctx, dupUsername), store.ErrAlreadyExists)

	dupEmail := domain.User{
		ID: idx.New().String(), Username: "bob", Email: "alice@example.com",
		PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
	}
	require.ErrorIs(t, s.Users().CreateUser(ctx, dupEmail), store.ErrAlreadyExists)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice", "alice@example.com")
	rt := seedToken(t, s, u.ID, time.Hour)

	t.Run("listed while live", func(t *testing.T) {
		live, err := s.RefreshTokens().ListLiveRefreshTokens(ctx)
		require.NoError(t, err)
		require.Len(t, live, 1)
		require.Equal(t, rt.ID, live[0].ID)
		require.Nil(t, live[0].RevokedAt)
	})

	t.Run("touch records usage", func(t *testing.T) {
		require.NoError(t, s.RefreshTokens().TouchRefreshToken(ctx, rt.ID))

		got, err := s.RefreshTokens().GetRefreshTokenByID(ctx, rt.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastUsedAt)
	})

	t.Run("revoke is idempotent", func(t *testing.T) {
		require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, rt.ID))

		got, err := s.RefreshTokens().GetRefreshTokenByID(ctx, rt.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RevokedAt)
		first := *got.RevokedAt

		require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, rt.ID))
		got, err = s.RefreshTokens().GetRefreshTokenByID(ctx, rt.ID)
		require.NoError(t, err)
		require.Equal(t, first, *got.RevokedAt)
	})

	t.Run("revoked token is not live", func(t *testing.T) {
		live, err := s.RefreshTokens().ListLiveRefreshTokens(ctx)
		require.NoError(t, err)
		require.Empty(t, live)
	})

	t.Run("revoke unknown token", func(t *testing.T) {
		err := s.RefreshTokens().RevokeRefreshToken(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestExpiredTokensAreNotLive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice", "alice@example.com")
	seedToken(t, s, u.ID, -time.Hour)

	live, err := s.RefreshTokens().ListLiveRefreshTokensByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, live)

	n, err := s.RefreshTokens().CountLiveRefreshTokensByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRevokeAllUserRefreshTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice", "alice@example.com")
	bob := seedUser(t, s, "bob", "bob@example.com")

	seedToken(t, s, alice.ID, time.Hour)
	seedToken(t, s, alice.ID, time.Hour)
	seedToken(t, s, alice.ID, -time.Hour) // expired, not counted
	bobToken := seedToken(t, s, bob.ID, time.Hour)

	n, err := s.RefreshTokens().RevokeAllUserRefreshTokens(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Bob's token untouched.
	got, err := s.RefreshTokens().GetRefreshTokenByID(ctx, bobToken.ID)
	require.NoError(t, err)
	require.Nil(t, got.RevokedAt)

	// Second pass revokes nothing.
	n, err = s.RefreshTokens().RevokeAllUserRefreshTokens(ctx, alice.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice", "alice@example.com")
	old := seedToken(t, s, u.ID, -48*time.Hour)
	fresh := seedToken(t, s, u.ID, time.Hour)

	require.NoError(t, s.RefreshTokens().DeleteExpiredRefreshTokens(ctx, 24*time.Hour))

	_, err := s.RefreshTokens().GetRefreshTokenByID(ctx, old.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.RefreshTokens().GetRefreshTokenByID(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice", "alice@example.com")

	sentinel := context.Canceled
	err := s.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID: idx.New().String(), UserID: u.ID, TokenHash: "h",
			ExpiresAt: now.Add(time.Hour), CreatedAt: now,
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	n, err := s.RefreshTokens().CountLiveRefreshTokensByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDeleteUserCascadesToTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice", "alice@example.com")
	rt := seedToken(t, s, u.ID, time.Hour)

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.RefreshTokens().GetRefreshTokenByID(ctx, rt.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
