package credentials

import (
	"context"
	"errors"
	"fmt"

	"portfolio-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
)

// UserStore is the slice of the user repository credentials need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
	Create(ctx context.Context, email, passwordHash string) (string, error)
}

type Service struct {
	users  UserStore
	hasher *Hasher

	// compared against when the email is unknown, so both failure paths
	// spend one bcrypt comparison
	dummyHash string
}

func NewService(users UserStore, hasher *Hasher) *Service {
	dummy, _ := hasher.HashPassword("portfolio-api/dummy-password")
	return &Service{users: users, hasher: hasher, dummyHash: dummy}
}

// Register creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return "", err
	}

	id, err := s.users.Create(ctx, email, hash)
	if errors.Is(err, repository.ErrDuplicate) {
		return "", ErrAlreadyRegistered
	}
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return id, nil
}

// Authenticate returns the user id for a matching email/password pair. An
// unknown email and a wrong password both yield ErrInvalidCredentials; any
// other error is a store failure.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	if user == nil {
		// hide whether user exists or not
		_ = s.hasher.VerifyPassword(s.dummyHash, password)
		return "", ErrInvalidCredentials
	}

	if err := s.hasher.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return user.ID, nil
}
