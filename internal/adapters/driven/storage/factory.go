// Package storage selects the token store backend configured for the
// deployment. The backends live in sub-packages.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/env"
	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/file"
	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/memory"
	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/redisstore"
	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/sqlstore"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewTokenStore opens the backend named in cfg. The closer releases any
// connection the backend holds.
func NewTokenStore(ctx context.Context, cfg domain.TokenStoreSettings) (driven.TokenStore, io.Closer, error) {
	switch cfg.Backend {
	case domain.TokenBackendFile:
		store, err := file.NewTokenStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil

	case domain.TokenBackendEnv:
		return env.NewTokenStore(""), nopCloser{}, nil

	case domain.TokenBackendSQL:
		dsn := cfg.DSN
		if cfg.Driver == domain.SQLDriverSQLite && dsn == "" {
			dsn = filepath.Join(cfg.Dir, "tokens.db")
		}
		store, err := sqlstore.Open(ctx, cfg.Driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case domain.TokenBackendRedis:
		store, err := redisstore.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case domain.TokenBackendMemory:
		return memory.NewTokenStore(), nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("%w: token backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
