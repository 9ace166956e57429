package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/memory"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestRefresher(store *memory.TokenStore, exchanger *mockExchanger) *TokenRefresher {
	r := NewTokenRefresher(store, exchanger)
	r.now = func() time.Time { return testNow }
	return r
}

func TestTokenRefresher_Token_Fresh(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	exchanger := &mockExchanger{}
	require.NoError(t, store.Put(ctx, "gmail", domain.StoredToken{
		AccessToken: "fresh",
		ExpiresAt:   testNow.Add(time.Hour),
	}))

	tok, err := newTestRefresher(store, exchanger).Token(ctx, "gmail")

	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.Zero(t, exchanger.refreshCalls)
}

func TestTokenRefresher_Token_NoTokenStored(t *testing.T) {
	exchanger := &mockExchanger{}

	_, err := newTestRefresher(memory.NewTokenStore(), exchanger).Token(context.Background(), "gmail")

	assert.ErrorIs(t, err, domain.ErrReauthorizationRequired)
	assert.Zero(t, exchanger.refreshCalls)
}

func TestTokenRefresher_Token_ExpiredWithoutRefreshToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	exchanger := &mockExchanger{}
	require.NoError(t, store.Put(ctx, "gmail", domain.StoredToken{
		AccessToken: "stale",
		ExpiresAt:   testNow.Add(-time.Minute),
	}))

	_, err := newTestRefresher(store, exchanger).Token(ctx, "gmail")

	assert.ErrorIs(t, err, domain.ErrReauthorizationRequired)
	assert.Zero(t, exchanger.refreshCalls, "no network call may be attempted")
}

func TestTokenRefresher_Token_ExpiresExactlyNow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	exchanger := &mockExchanger{refreshed: &domain.StoredToken{AccessToken: "new", ExpiresAt: testNow.Add(time.Hour)}}
	require.NoError(t, store.Put(ctx, "gmail", domain.StoredToken{
		AccessToken:  "stale",
		RefreshToken: "r",
		ExpiresAt:    testNow,
	}))

	tok, err := newTestRefresher(store, exchanger).Token(ctx, "gmail")

	require.NoError(t, err)
	assert.Equal(t, "new", tok.AccessToken)
	assert.Equal(t, 1, exchanger.refreshCalls)
}

func TestTokenRefresher_Token_RefreshesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	scopes := []string{"https://www.googleapis.com/auth/gmail.readonly"}
	require.NoError(t, store.Put(ctx, "gmail", domain.StoredToken{
		AccessToken:  "stale",
		RefreshToken: "long-lived",
		TokenType:    "Bearer",
		ExpiresAt:    testNow.Add(-time.Hour),
		Scopes:       scopes,
	}))
	exchanger := &mockExchanger{refreshed: &domain.StoredToken{
		AccessToken: "renewed",
		ExpiresAt:   testNow.Add(time.Hour),
	}}

	tok, err := newTestRefresher(store, exchanger).Token(ctx, "gmail")

	require.NoError(t, err)
	assert.Equal(t, "renewed", tok.AccessToken)
	assert.Equal(t, "long-lived", tok.RefreshToken, "refresh token is carried over")
	assert.Equal(t, scopes, tok.Scopes)
	assert.Equal(t, "Bearer", tok.TokenType)

	stored, err := store.Get(ctx, "gmail")
	require.NoError(t, err)
	assert.Equal(t, "renewed", stored.AccessToken)
	assert.Equal(t, "long-lived", stored.RefreshToken)
}

func TestTokenRefresher_Token_RotatedRefreshTokenIsKept(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	require.NoError(t, store.Put(ctx, "gmail", domain.StoredToken{AccessToken: "a", RefreshToken: "old", ExpiresAt: testNow.Add(-time.Hour)}))
	exchanger := &mockExchanger{refreshed: &domain.StoredToken{AccessToken: "b", RefreshToken: "rotated", ExpiresAt: testNow.Add(time.Hour)}}

	tok, err := newTestRefresher(store, exchanger).Token(ctx, "gmail")

	require.NoError(t, err)
	assert.Equal(t, "rotated", tok.RefreshToken)
}

func TestTokenRefresher_Token_PutFailureStillReturnsToken(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewTokenStore()
	require.NoError(t, inner.Put(ctx, "gmail", domain.StoredToken{AccessToken: "a", RefreshToken: "r", ExpiresAt: testNow.Add(-time.Hour)}))
	exchanger := &mockExchanger{refreshed: &domain.StoredToken{AccessToken: "b", ExpiresAt: testNow.Add(time.Hour)}}

	r := NewTokenRefresher(failingStore{TokenStore: inner}, exchanger)
	r.now = func() time.Time { return testNow }

	tok, err := r.Token(ctx, "gmail")

	require.NoError(t, err)
	assert.Equal(t, "b", tok.AccessToken)
}

func TestTokenRefresher_Token_RefreshErrors(t *testing.T) {
	tests := []struct {
		name       string
		refreshErr error
		wantIs     error
	}{
		{
			name:       "revoked grant",
			refreshErr: fmt.Errorf("invalid_grant: %w", domain.ErrReauthorizationRequired),
			wantIs:     domain.ErrReauthorizationRequired,
		},
		{
			name:       "network failure",
			refreshErr: errors.New("connection refused"),
			wantIs:     domain.ErrUpstreamAPI,
		},
		{
			name:       "already classified",
			refreshErr: &domain.UpstreamError{Service: "oauth2", StatusCode: 500, Err: errors.New("boom")},
			wantIs:     domain.ErrUpstreamAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewTokenStore()
			require.NoError(t, store.Put(ctx, "gmail", domain.StoredToken{AccessToken: "a", RefreshToken: "r", ExpiresAt: testNow.Add(-time.Hour)}))
			exchanger := &mockExchanger{refreshErr: tt.refreshErr}

			_, err := newTestRefresher(store, exchanger).Token(ctx, "gmail")

			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, 1, store.Puts(), "failed refresh must not overwrite the stored token")
		})
	}
}

func TestTokenRefresher_Seed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	r := newTestRefresher(store, nil)

	err := r.Seed(ctx, "gmail", domain.StoredToken{RefreshToken: "r", Scopes: []string{"b", "a", "a"}})
	require.NoError(t, err)

	tok, err := store.Get(ctx, "gmail")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, []string{"a", "b"}, tok.Scopes)

	assert.ErrorIs(t, r.Seed(ctx, "gmail", domain.StoredToken{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, r.Seed(ctx, "", domain.StoredToken{AccessToken: "a"}), domain.ErrInvalidInput)
}

func TestTokenRefresher_ForceRefresh(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	require.NoError(t, store.Put(ctx, "gmail", domain.StoredToken{AccessToken: "a", RefreshToken: "r", ExpiresAt: testNow.Add(time.Hour)}))
	exchanger := &mockExchanger{refreshed: &domain.StoredToken{AccessToken: "forced", ExpiresAt: testNow.Add(2 * time.Hour)}}

	tok, err := newTestRefresher(store, exchanger).ForceRefresh(ctx, "gmail")

	require.NoError(t, err)
	assert.Equal(t, "forced", tok.AccessToken)
	assert.Equal(t, 1, exchanger.refreshCalls)

	_, err = newTestRefresher(memory.NewTokenStore(), exchanger).ForceRefresh(ctx, "gmail")
	assert.ErrorIs(t, err, domain.ErrReauthorizationRequired)
}

func TestTokenRefresher_NilStore(t *testing.T) {
	r := NewTokenRefresher(nil, nil)

	_, err := r.Token(context.Background(), "gmail")

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
