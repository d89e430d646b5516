package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zaobank/mobile-auth/internal/auth/domain"
	"github.com/zaobank/mobile-auth/internal/auth/store"
	"github.com/zaobank/mobile-auth/pkg/cryptox"
	"github.com/zaobank/mobile-auth/pkg/idx"
)

// MinPasswordLength is the shortest password accepted at
// registration.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrRegistrationDisabled = errors.New("registration_disabled")
	ErrUsernameTaken        = errors.New("username_exists")
	ErrEmailTaken           = errors.New("email_exists")
	ErrWeakPassword         = errors.New("password too short")
)

type UserService struct {
	Store store.Store

	// RegistrationOpen gates self-service account creation.
	RegistrationOpen bool

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// Authenticate checks a username (or email) and password pair.
// Unknown account and wrong password both surface as
// ErrInvalidCredentials so the response does not leak which
// accounts exist.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, login)
	if errors.Is(err, store.ErrNotFound) && strings.Contains(login, "@") {
		user, err = s.Store.Users().GetUserByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifySecret(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrHashMismatch) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	return user, nil
}

type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// Register creates a new account. Username and email must both be
// unused; the checks and the insert run in one transaction so a
// concurrent registration cannot slip between them.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	if !s.RegistrationOpen {
		return domain.User{}, ErrRegistrationDisabled
	}

	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.DisplayName == "" {
		p.DisplayName = p.Username
	}
	if len(p.Password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashSecret(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		DisplayName:  p.DisplayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByUsername(ctx, p.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByEmail(ctx, p.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
