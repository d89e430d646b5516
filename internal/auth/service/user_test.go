package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, open bool) *UserService {
	t.Helper()
	return &UserService{
		Store:            newTestStore(t),
		RegistrationOpen: open,
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterParams{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "alice", user.DisplayName) // defaults to username

	t.Run("by username", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "alice", "s3cret-enough")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("by email", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "alice@example.com", "s3cret-enough")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "mallory", "s3cret-enough")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegisterGuards(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{
		Username: "alice", Email: "alice@example.com", Password: "s3cret-enough",
	})
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterParams{
			Username: "alice", Email: "other@example.com", Password: "s3cret-enough",
		})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterParams{
			Username: "bob", Email: "alice@example.com", Password: "s3cret-enough",
		})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterParams{
			Username: "bob", Email: "bob@example.com", Password: "short",
		})
		require.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestRegisterDisabled(t *testing.T) {
	svc := newUserService(t, false)

	_, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice", Email: "alice@example.com", Password: "s3cret-enough",
	})
	require.ErrorIs(t, err, ErrRegistrationDisabled)
}
