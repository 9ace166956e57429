// Package redisstore keeps OAuth tokens in Redis, one key per integration,
// for deployments that run several stateless web dynos.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TokenStore = (*Store)(nil)

// DefaultKeyPrefix namespaces token keys.
const DefaultKeyPrefix = "tinatools:token:"

// Store maps integrations to Redis string keys without expiry.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Open parses a redis:// or rediss:// URL and verifies the connection.
func Open(ctx context.Context, rawURL string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return New(client, DefaultKeyPrefix), nil
}

// New wraps an existing client.
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(integration string) string {
	return s.prefix + integration
}

// Get retrieves the token for integration.
func (s *Store) Get(ctx context.Context, integration string) (*domain.StoredToken, error) {
	data, err := s.client.Get(ctx, s.key(integration)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	var tok domain.StoredToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token key %q: %w", s.key(integration), err)
	}
	return &tok, nil
}

// Put overwrites the key for integration.
func (s *Store) Put(ctx context.Context, integration string, token domain.StoredToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	if err := s.client.Set(ctx, s.key(integration), data, 0).Err(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}
