package google

import (
	"context"
	"errors"

	"portfolio-api/internal/auth/provider/openid"
)

const (
	providerName = "google"
	issuer       = "https://accounts.google.com"
)

// New configures Google sign-in. Google requires the client secret.
func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*openid.Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	return openid.New(ctx, openid.Config{
		Name:         providerName,
		Issuer:       issuer,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	})
}
