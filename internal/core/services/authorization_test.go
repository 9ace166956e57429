package services

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/memory"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

func TestAuthorizationService_Begin(t *testing.T) {
	exchanger := &mockExchanger{}
	svc := NewAuthorizationService(exchanger, memory.NewTokenStore())

	session, err := svc.Begin("http://127.0.0.1:8765/callback")

	require.NoError(t, err)
	assert.Equal(t, "https://accounts.example/auth?state="+session.State, session.URL)
	assert.Equal(t, "http://127.0.0.1:8765/callback", exchanger.lastAuthRequest.RedirectURL)
	assert.Equal(t, codeChallenge(session.CodeVerifier), exchanger.lastAuthRequest.CodeChallenge)

	_, err = base64.RawURLEncoding.DecodeString(session.CodeVerifier)
	assert.NoError(t, err, "verifier should be valid base64url")
	assert.GreaterOrEqual(t, len(session.CodeVerifier), 43)
	assert.LessOrEqual(t, len(session.CodeVerifier), 128)

	other, err := svc.Begin("http://127.0.0.1:8765/callback")
	require.NoError(t, err)
	assert.NotEqual(t, session.State, other.State)
	assert.NotEqual(t, session.CodeVerifier, other.CodeVerifier)
}

func TestCodeChallenge_RFC7636Vector(t *testing.T) {
	// Appendix B of RFC 7636.
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", codeChallenge(verifier))
}

func TestAuthorizationService_Complete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	exchanger := &mockExchanger{exchanged: &domain.StoredToken{
		AccessToken:  "a",
		RefreshToken: "r",
		ExpiresAt:    time.Now().Add(time.Hour),
	}}
	svc := NewAuthorizationService(exchanger, store)
	session, err := svc.Begin("http://localhost/callback")
	require.NoError(t, err)

	tok, err := svc.Complete(ctx, "gmail", session, "auth-code")

	require.NoError(t, err)
	assert.Equal(t, "r", tok.RefreshToken)
	assert.Equal(t, "auth-code", exchanger.exchangeCode)
	assert.Equal(t, session.CodeVerifier, exchanger.exchangeVerifier)

	stored, err := store.Get(ctx, "gmail")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "a", stored.AccessToken)
}

func TestAuthorizationService_Complete_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthorizationService(&mockExchanger{}, memory.NewTokenStore())
	session, err := svc.Begin("http://localhost/callback")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, "gmail", session, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Complete(ctx, "gmail", session, "code")
	assert.ErrorContains(t, err, "exchange authorization code")

	_, err = NewAuthorizationService(nil, nil).Begin("x")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
