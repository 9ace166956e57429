// Package file stores each integration's OAuth token as a JSON file named
// <integration>_token.json inside a data directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

var integrationName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// TokenStore is a directory of token files.
type TokenStore struct {
	dir string
}

// NewTokenStore creates the directory if needed.
func NewTokenStore(dir string) (*TokenStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: token directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating token directory: %w", err)
	}
	return &TokenStore{dir: dir}, nil
}

// Path returns the file backing integration.
func (s *TokenStore) Path(integration string) string {
	return filepath.Join(s.dir, integration+"_token.json")
}

// Get retrieves the token for integration.
func (s *TokenStore) Get(_ context.Context, integration string) (*domain.StoredToken, error) {
	if !integrationName.MatchString(integration) {
		return nil, fmt.Errorf("%w: integration name %q", domain.ErrInvalidInput, integration)
	}
	data, err := os.ReadFile(s.Path(integration))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var tok domain.StoredToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", s.Path(integration), err)
	}
	return &tok, nil
}

// Put writes the token through a temporary file so readers never see a
// partial document.
func (s *TokenStore) Put(_ context.Context, integration string, token domain.StoredToken) error {
	if !integrationName.MatchString(integration) {
		return fmt.Errorf("%w: integration name %q", domain.ErrInvalidInput, integration)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+integration+"_token-*.json")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting token file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(integration)); err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}
