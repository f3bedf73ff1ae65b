package service

import (
	"context"
	"errors"
	"fmt"

	"portfolio-api/internal/auth/credentials"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/result"
)

const (
	MsgLoggedIn           = "User logged in successfully"
	MsgLoggedOut          = "User logged out successfully"
	MsgInvalidCredentials = "Invalid email or password"
	msgUserNotFound       = "User not found"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
}

// PublicUser is the outward representation of a user.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type UserService struct {
	auth  Authenticator
	users UserLookup
}

func NewUserService(auth Authenticator, users UserLookup) *UserService {
	return &UserService{auth: auth, users: users}
}

// Login checks credentials. On success the returned user id must be bound to
// a session by the caller; the result alone does not log anyone in.
func (s *UserService) Login(ctx context.Context, email, password string) (result.Result, string, error) {
	userID, err := s.auth.Authenticate(ctx, email, password)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		return result.Unauthorized(MsgInvalidCredentials), "", nil
	}
	if err != nil {
		return result.Result{}, "", fmt.Errorf("login: %w", err)
	}
	return result.Created(nil, MsgLoggedIn), userID, nil
}

func (s *UserService) Logout() result.Result {
	return result.Ok(nil, MsgLoggedOut)
}

func (s *UserService) Me(ctx context.Context, userID string) (result.Result, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return result.Result{}, fmt.Errorf("me: %w", err)
	}
	if user == nil {
		return result.NotFound(msgUserNotFound), nil
	}
	return result.Ok(PublicUser{ID: user.ID, Email: user.Email}, ""), nil
}
