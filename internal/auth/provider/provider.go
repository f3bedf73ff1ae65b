package provider

import (
	"context"

	"portfolio-api/internal/auth"
)

// OAuthProvider is one configured sign-in provider. Implementations return
// identity facts only; they never touch users or sessions.
type OAuthProvider interface {
	// Name is the path segment used in /oauth/login/:provider.
	Name() string

	// AuthCodeURL returns the authorization URL. State and the S256 PKCE
	// challenge come from the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode redeems the code, verifies the ID token and returns the
	// normalized identity.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
