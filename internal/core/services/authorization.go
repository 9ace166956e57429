package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// Ensure AuthorizationService implements the interface.
var _ driving.AuthorizationService = (*AuthorizationService)(nil)

// AuthorizationService runs the offline-access consent flow that seeds the
// token store.
type AuthorizationService struct {
	exchanger driven.TokenExchanger
	store     driven.TokenStore
}

// NewAuthorizationService creates a new authorization service.
func NewAuthorizationService(exchanger driven.TokenExchanger, store driven.TokenStore) *AuthorizationService {
	return &AuthorizationService{exchanger: exchanger, store: store}
}

// Begin prepares a PKCE-protected consent URL.
func (s *AuthorizationService) Begin(redirectURL string) (*driving.AuthorizationSession, error) {
	if s.exchanger == nil {
		return nil, domain.ErrNotImplemented
	}
	verifier, err := randomToken(64)
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := randomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	url := s.exchanger.AuthCodeURL(driven.AuthorizationRequest{
		State:         state,
		CodeChallenge: codeChallenge(verifier),
		RedirectURL:   redirectURL,
	})
	return &driving.AuthorizationSession{
		URL:          url,
		State:        state,
		CodeVerifier: verifier,
		RedirectURL:  redirectURL,
	}, nil
}

// Complete exchanges code for a token and stores it under integration.
func (s *AuthorizationService) Complete(
	ctx context.Context,
	integration string,
	session *driving.AuthorizationSession,
	code string,
) (*domain.StoredToken, error) {
	if s.exchanger == nil || s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if session == nil || code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", domain.ErrInvalidInput)
	}

	tok, err := s.exchanger.Exchange(ctx, code, session.CodeVerifier, session.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if !tok.HasRefreshToken() {
		logger.Warn("no refresh token returned for %s; revoke the app grant and run the consent flow again", integration)
	}

	if err := s.store.Put(ctx, integration, *tok); err != nil {
		return nil, fmt.Errorf("store %s token: %w", integration, err)
	}
	return tok, nil
}

// randomToken returns n random bytes encoded base64url without padding.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// codeChallenge derives the S256 PKCE challenge from verifier.
func codeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
