package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractIntegration(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{uri: "tinatools://tokens/gmail", expected: "gmail"},
		{uri: "tinatools://tokens/", expected: ""},
		{uri: "tinatools://tokens/a/b", expected: ""},
		{uri: "file://tokens/gmail", expected: ""},
		{uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractIntegration(tt.uri))
		})
	}
}

func TestServer_handleOperationsResource(t *testing.T) {
	server := newTestServer(t, &mockDispatcher{ops: []string{"list", "search"}})

	result, err := server.handleOperationsResource(context.Background(), readRequest("tinatools://operations"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.JSONEq(t, `["list","search"]`, result.Contents[0].Text)
}

func TestServer_handleTokenResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no token service", func(t *testing.T) {
		server := newTestServer(t, &mockDispatcher{})

		_, err := server.handleTokenResource(ctx, readRequest("tinatools://tokens/gmail"))

		assert.Error(t, err)
	})

	t.Run("stored token hides secrets", func(t *testing.T) {
		tokens := &mockTokenService{token: &domain.StoredToken{
			AccessToken:  "secret-access",
			RefreshToken: "secret-refresh",
			ExpiresAt:    time.Now().Add(-time.Minute),
			Scopes:       []string{"a"},
		}}
		server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, Tokens: tokens}, "test")
		require.NoError(t, err)

		result, err := server.handleTokenResource(ctx, readRequest("tinatools://tokens/gmail"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.NotContains(t, text, "secret")
		var status map[string]any
		require.NoError(t, json.Unmarshal([]byte(text), &status))
		assert.Equal(t, "gmail", status["integration"])
		assert.Equal(t, true, status["stored"])
		assert.Equal(t, true, status["expired"])
		assert.Equal(t, true, status["hasRefreshToken"])
		assert.Equal(t, []string{"gmail"}, tokens.asked)
	})

	t.Run("nothing stored", func(t *testing.T) {
		server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, Tokens: &mockTokenService{}}, "test")
		require.NoError(t, err)

		result, err := server.handleTokenResource(ctx, readRequest("tinatools://tokens/gmail"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"stored": false`)
	})

	t.Run("store error", func(t *testing.T) {
		server, err := NewServer(&Ports{Dispatcher: &mockDispatcher{}, Tokens: &mockTokenService{err: errors.New("db down")}}, "test")
		require.NoError(t, err)

		_, err = server.handleTokenResource(ctx, readRequest("tinatools://tokens/gmail"))

		assert.ErrorContains(t, err, "db down")
	})
}
