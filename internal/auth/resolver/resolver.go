package resolver

import (
	"context"
	"errors"
	"fmt"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/repository"
)

// ErrUnknownUser means the identity maps to no existing account. Accounts
// are only ever created by the seed command.
var ErrUnknownUser = errors.New("resolver: no user for identity")

// Resolver determines which internal user an external identity belongs to.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (userID string, err error)
}

type IdentityStore interface {
	UserIDFor(ctx context.Context, provider, providerUserID string) (string, error)
	Link(ctx context.Context, id repository.Identity) error
}

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
}

// LinkingResolver looks the identity up first and otherwise links it to
// the user with the same email, provided the provider verified that email.
type LinkingResolver struct {
	identities IdentityStore
	users      UserFinder
}

func NewLinkingResolver(identities IdentityStore, users UserFinder) *LinkingResolver {
	return &LinkingResolver{identities: identities, users: users}
}

func (r *LinkingResolver) Resolve(ctx context.Context, identity *auth.Identity) (string, error) {
	if identity == nil {
		return "", errors.New("resolver: identity is nil")
	}

	userID, err := r.identities.UserIDFor(ctx, identity.Provider, identity.ProviderUserID)
	if err != nil {
		return "", fmt.Errorf("resolver: %w", err)
	}
	if userID != "" {
		return userID, nil
	}

	// Only a verified email may link.
	if !identity.EmailVerified {
		return "", ErrUnknownUser
	}

	user, err := r.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return "", fmt.Errorf("resolver: %w", err)
	}
	if user == nil {
		return "", ErrUnknownUser
	}

	if err := r.identities.Link(ctx, repository.Identity{
		UserID:         user.ID,
		Provider:       identity.Provider,
		ProviderUserID: identity.ProviderUserID,
	}); err != nil {
		return "", fmt.Errorf("resolver: %w", err)
	}

	return user.ID, nil
}
