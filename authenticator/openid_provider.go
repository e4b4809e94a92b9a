package authenticator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// operatorScopes are requested so the console can show who made a change
var operatorScopes = []string{oidc.ScopeOpenID, "profile", "email"}

// OpenIDConfig holds OpenID Connect configuration
type OpenIDConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

func (c OpenIDConfig) validate() error {
	var errs []error
	for _, field := range []struct{ name, value string }{
		{"domain", c.Domain},
		{"client ID", c.ClientID},
		{"client secret", c.ClientSecret},
		{"callback URL", c.CallbackURL},
	} {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.name))
		}
	}
	return errors.Join(errs...)
}

// issuerURL accepts a bare tenant domain or a full issuer URL and returns the
// issuer with the trailing slash Auth0 publishes in its discovery document
func issuerURL(domain string) string {
	domain = strings.TrimSpace(domain)
	if !strings.HasPrefix(domain, "https://") && !strings.HasPrefix(domain, "http://") {
		domain = "https://" + domain
	}
	return strings.TrimRight(domain, "/") + "/"
}

// OpenIDProvider signs operators in against any OIDC issuer, Auth0 included
type OpenIDProvider struct {
	oauth    oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewOpenIDProvider discovers the issuer and prepares the code exchange and
// ID token verification
func NewOpenIDProvider(ctx context.Context, cfg OpenIDConfig) (*OpenIDProvider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	provider, err := oidc.NewProvider(ctx, issuerURL(cfg.Domain))
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC issuer: %w", err)
	}

	return &OpenIDProvider{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       operatorScopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// GetAuthURL returns the issuer's login URL carrying state
func (p *OpenIDProvider) GetAuthURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// ExchangeCode trades the callback's authorization code for tokens
func (p *OpenIDProvider) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, errors.New("authorization code is empty")
	}

	t, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	token := &Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry.Unix(),
	}
	token.IDToken, _ = t.Extra("id_token").(string)
	return token, nil
}

// GetClaims verifies the ID token and returns its claims
func (p *OpenIDProvider) GetClaims(ctx context.Context, token *Token) (Claims, error) {
	if token == nil || token.IDToken == "" {
		return nil, errors.New("no id_token in token")
	}

	idToken, err := p.verifier.Verify(ctx, token.IDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode ID token claims: %w", err)
	}
	return claims, nil
}
