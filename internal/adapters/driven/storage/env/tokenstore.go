// Package env reads OAuth tokens from environment variables, the way
// platforms with ephemeral filesystems (Heroku dynos) are configured.
//
// The token for integration "gmail" lives in GMAIL_TOKEN_JSON. Put only
// updates the running process: the deployment's config var must be updated
// by hand, so every Put logs a warning.
package env

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore maps integrations to environment variables.
type TokenStore struct {
	prefix string
}

// NewTokenStore creates a store. prefix is prepended to every variable name
// and is usually empty.
func NewTokenStore(prefix string) *TokenStore {
	return &TokenStore{prefix: prefix}
}

// VarName returns the variable holding integration's token.
func (s *TokenStore) VarName(integration string) string {
	name := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(integration))
	return s.prefix + name + "_TOKEN_JSON"
}

// Get retrieves the token for integration.
func (s *TokenStore) Get(_ context.Context, integration string) (*domain.StoredToken, error) {
	raw := strings.TrimSpace(os.Getenv(s.VarName(integration)))
	if raw == "" {
		return nil, nil
	}
	var tok domain.StoredToken
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.VarName(integration), err)
	}
	return &tok, nil
}

// Put sets the variable in the current process.
func (s *TokenStore) Put(_ context.Context, integration string, token domain.StoredToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	name := s.VarName(integration)
	if err := os.Setenv(name, string(data)); err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	logger.Get().Warn().
		Str("variable", name).
		Msg("token updated in process environment only; update the deployment config var to persist it")
	return nil
}
