// Package storetest holds the behaviour every driven.TokenStore backend must
// share. Each backend's tests call RunTokenStoreTests with a constructor.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// SampleToken returns a fully populated token.
func SampleToken() domain.StoredToken {
	return domain.StoredToken{
		AccessToken:  "ya29.sample-access",
		RefreshToken: "1//sample-refresh",
		TokenType:    "Bearer",
		ExpiresAt:    time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC),
		Scopes: []string{
			"https://www.googleapis.com/auth/contacts.readonly",
			"https://www.googleapis.com/auth/gmail.readonly",
		},
	}
}

// AssertTokenEqual compares tokens field by field, times by instant.
func AssertTokenEqual(t *testing.T, want domain.StoredToken, got *domain.StoredToken) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.Equal(t, want.TokenType, got.TokenType)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt), "expiry: want %s, got %s", want.ExpiresAt, got.ExpiresAt)
	assert.ElementsMatch(t, want.Scopes, got.Scopes)
}

// RunTokenStoreTests exercises newStore against the TokenStore contract.
func RunTokenStoreTests(t *testing.T, newStore func(t *testing.T) driven.TokenStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing returns nil", func(t *testing.T) {
		store := newStore(t)

		tok, err := store.Get(ctx, "gmail")

		require.NoError(t, err)
		assert.Nil(t, tok)
	})

	t.Run("put then get round trips", func(t *testing.T) {
		store := newStore(t)
		want := SampleToken()

		require.NoError(t, store.Put(ctx, "gmail", want))
		got, err := store.Get(ctx, "gmail")

		require.NoError(t, err)
		AssertTokenEqual(t, want, got)
	})

	t.Run("put round trips a minimal token", func(t *testing.T) {
		store := newStore(t)
		want := domain.StoredToken{
			AccessToken: "only-access",
			ExpiresAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}

		require.NoError(t, store.Put(ctx, "contacts", want))
		got, err := store.Get(ctx, "contacts")

		require.NoError(t, err)
		AssertTokenEqual(t, want, got)
		assert.False(t, got.HasRefreshToken())
	})

	t.Run("put overwrites", func(t *testing.T) {
		store := newStore(t)
		first := SampleToken()
		second := SampleToken()
		second.AccessToken = "ya29.second"
		second.ExpiresAt = first.ExpiresAt.Add(time.Hour)

		require.NoError(t, store.Put(ctx, "gmail", first))
		require.NoError(t, store.Put(ctx, "gmail", second))
		got, err := store.Get(ctx, "gmail")

		require.NoError(t, err)
		AssertTokenEqual(t, second, got)
	})

	t.Run("integrations are isolated", func(t *testing.T) {
		store := newStore(t)
		gmail := SampleToken()
		docs := SampleToken()
		docs.AccessToken = "ya29.docs"

		require.NoError(t, store.Put(ctx, "gmail", gmail))
		require.NoError(t, store.Put(ctx, "docs", docs))

		got, err := store.Get(ctx, "gmail")
		require.NoError(t, err)
		AssertTokenEqual(t, gmail, got)

		got, err = store.Get(ctx, "docs")
		require.NoError(t, err)
		AssertTokenEqual(t, docs, got)
	})
}
