// Package memory provides an in-memory implementation of driven.TokenStore
// for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps tokens in a map guarded by a mutex.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.StoredToken
	puts   int
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]domain.StoredToken),
	}
}

// Get retrieves the token for integration.
func (s *TokenStore) Get(_ context.Context, integration string) (*domain.StoredToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[integration]
	if !ok {
		return nil, nil
	}
	tok.Scopes = append([]string(nil), tok.Scopes...)
	return &tok, nil
}

// Put stores the token, replacing any previous one.
func (s *TokenStore) Put(_ context.Context, integration string, token domain.StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token.Scopes = append([]string(nil), token.Scopes...)
	s.tokens[integration] = token
	s.puts++
	return nil
}

// Puts returns how many times Put has been called.
func (s *TokenStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}
