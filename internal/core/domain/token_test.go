package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredToken_IsExpired(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future", now.Add(time.Minute), false},
		{"exactly now", now, true},
		{"past", now.Add(-time.Second), true},
		{"zero", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &StoredToken{AccessToken: "a", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, tok.IsExpired(now))
		})
	}
}

func TestStoredToken_HasRefreshToken(t *testing.T) {
	assert.False(t, (&StoredToken{}).HasRefreshToken())
	assert.True(t, (&StoredToken{RefreshToken: "r"}).HasRefreshToken())
}

func TestStoredToken_Masked(t *testing.T) {
	tok := &StoredToken{AccessToken: "ya29.abcdefghijkl", RefreshToken: "short"}

	masked := tok.Masked()

	assert.Equal(t, "ya29****ijkl", masked.AccessToken)
	assert.Equal(t, "****", masked.RefreshToken)
	assert.Equal(t, "ya29.abcdefghijkl", tok.AccessToken)
}

func TestNormalizeScopes(t *testing.T) {
	got := NormalizeScopes([]string{"b", " a ", "", "b"})
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Nil(t, NormalizeScopes(nil))
}

func TestStoredToken_JSONRoundTrip(t *testing.T) {
	tok := StoredToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresAt:    time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.readonly", "openid"},
	}

	data, err := json.Marshal(tok)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scope":"https://www.googleapis.com/auth/gmail.readonly openid"`)

	var got StoredToken
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, tok.AccessToken, got.AccessToken)
	assert.Equal(t, tok.RefreshToken, got.RefreshToken)
	assert.Equal(t, tok.TokenType, got.TokenType)
	assert.True(t, tok.ExpiresAt.Equal(got.ExpiresAt))
	assert.Equal(t, tok.Scopes, got.Scopes)
}

func TestStoredToken_UnmarshalPHPClientFormat(t *testing.T) {
	raw := `{
		"access_token": "ya29.x",
		"refresh_token": "1//r",
		"token_type": "Bearer",
		"created": 1760000000,
		"expires_in": 3599,
		"scope": ["https://www.googleapis.com/auth/drive", "https://www.googleapis.com/auth/documents"]
	}`

	var got StoredToken
	require.NoError(t, json.Unmarshal([]byte(raw), &got))

	assert.Equal(t, "ya29.x", got.AccessToken)
	assert.Equal(t, time.Unix(1760003599, 0).UTC(), got.ExpiresAt)
	assert.Equal(t, []string{
		"https://www.googleapis.com/auth/documents",
		"https://www.googleapis.com/auth/drive",
	}, got.Scopes)
}

func TestStoredToken_UnmarshalWithoutExpiry(t *testing.T) {
	var got StoredToken
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"a"}`), &got))

	assert.True(t, got.ExpiresAt.IsZero())
	assert.Nil(t, got.Scopes)
}
