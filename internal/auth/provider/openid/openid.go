// Package openid implements OAuthProvider for any OpenID Connect issuer
// that supports discovery.
package openid

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type Config struct {
	// Name is the registry key, e.g. "oidc" or "google".
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string // empty for public clients
	RedirectURL  string

	// PublicBaseURL, when set, replaces scheme and host of the discovered
	// authorization endpoint. The token endpoint is left alone.
	PublicBaseURL string
}

func (c Config) validate() error {
	if c.Name == "" || c.Issuer == "" || c.ClientID == "" || c.RedirectURL == "" {
		return fmt.Errorf("openid: %q config missing required fields", c.Name)
	}
	return nil
}

type Provider struct {
	name        string
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New runs discovery against cfg.Issuer.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("openid: %s discovery: %w", cfg.Name, err)
	}

	ep := oidcProvider.Endpoint()
	if cfg.PublicBaseURL != "" {
		ep.AuthURL, err = rebase(ep.AuthURL, cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("openid: %s public base url: %w", cfg.Name, err)
		}
	}

	return &Provider{
		name: cfg.Name,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     ep,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func rebase(endpoint, base string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if b.Scheme == "" || b.Host == "" {
		return "", fmt.Errorf("%q is not an absolute url", base)
	}
	u.Scheme, u.Host = b.Scheme, b.Host
	return u.String(), nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *Provider) ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("openid: %s token exchange: %w", p.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("openid: %s did not return id_token", p.name)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("openid: %s id_token verification: %w", p.name, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("openid: %s claims: %w", p.name, err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("openid: id_token missing sub or email")
	}

	logger.Info("oidc identity verified", map[string]any{
		"provider":       p.name,
		"issuer":         idToken.Issuer,
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       p.name,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
	}, nil
}
