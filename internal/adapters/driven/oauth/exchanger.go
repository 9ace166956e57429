// Package oauth exchanges and refreshes Google OAuth2 tokens.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// invalidGrant is the token endpoint error for a revoked or expired
// refresh token.
const invalidGrant = "invalid_grant"

// Exchanger talks to the OAuth2 token endpoint described by an oauth2.Config.
type Exchanger struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewExchanger creates an exchanger for config.
func NewExchanger(config *oauth2.Config) *Exchanger {
	return &Exchanger{config: config}
}

// WithHTTPClient sets the client used for token endpoint calls.
func (e *Exchanger) WithHTTPClient(c *http.Client) *Exchanger {
	e.httpClient = c
	return e
}

func (e *Exchanger) context(ctx context.Context) context.Context {
	if e.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
}

// Refresh trades refreshToken for a new access token.
func (e *Exchanger) Refresh(ctx context.Context, refreshToken string) (*domain.StoredToken, error) {
	ts := e.config.TokenSource(e.context(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := ts.Token()
	if err != nil {
		return nil, classify(err)
	}
	return toStoredToken(tok), nil
}

// AuthCodeURL returns the consent URL for an offline-access PKCE request.
// prompt=consent makes Google issue a refresh token on every consent.
func (e *Exchanger) AuthCodeURL(req driven.AuthorizationRequest) string {
	cfg := e.withRedirect(req.RedirectURL)
	return cfg.AuthCodeURL(req.State,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("code_challenge", req.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades an authorization code for a token.
func (e *Exchanger) Exchange(ctx context.Context, code, codeVerifier, redirectURL string) (*domain.StoredToken, error) {
	cfg := e.withRedirect(redirectURL)
	tok, err := cfg.Exchange(e.context(ctx), code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, classify(err)
	}
	return toStoredToken(tok), nil
}

func (e *Exchanger) withRedirect(redirectURL string) *oauth2.Config {
	if redirectURL == "" {
		return e.config
	}
	cfg := *e.config
	cfg.RedirectURL = redirectURL
	return &cfg
}

func classify(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return &domain.UpstreamError{Service: "oauth2", Err: err}
	}
	if re.ErrorCode == invalidGrant {
		desc := re.ErrorDescription
		if desc == "" {
			desc = invalidGrant
		}
		return fmt.Errorf("%w: %s", domain.ErrReauthorizationRequired, desc)
	}
	status := 0
	if re.Response != nil {
		status = re.Response.StatusCode
	}
	return &domain.UpstreamError{Service: "oauth2", StatusCode: status, Err: err}
}

func toStoredToken(tok *oauth2.Token) *domain.StoredToken {
	stored := &domain.StoredToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresAt:    tok.Expiry.UTC(),
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		stored.Scopes = domain.NormalizeScopes(strings.Fields(scope))
	}
	return stored
}

// ConfigFromSettings builds the OAuth2 client configuration. Inline client
// JSON wins over a credentials file, which wins over an id/secret pair.
func ConfigFromSettings(g domain.GoogleSettings) (*oauth2.Config, error) {
	scopes := g.Scopes
	if len(scopes) == 0 {
		scopes = domain.DefaultScopes()
	}

	var (
		cfg *oauth2.Config
		err error
	)
	switch {
	case g.CredentialsJSON != "":
		cfg, err = google.ConfigFromJSON([]byte(g.CredentialsJSON), scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse inline google credentials: %w", err)
		}
	case g.CredentialsFile != "":
		data, readErr := os.ReadFile(g.CredentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("read google credentials: %w", readErr)
		}
		cfg, err = google.ConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse google credentials %s: %w", g.CredentialsFile, err)
		}
	case g.ClientID != "":
		cfg = &oauth2.Config{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
		}
	default:
		return nil, fmt.Errorf("%w: google client credentials are not configured", domain.ErrInvalidInput)
	}

	if g.RedirectURL != "" {
		cfg.RedirectURL = g.RedirectURL
	}
	return cfg, nil
}
