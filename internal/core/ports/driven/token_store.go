package driven

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// TokenStore persists one OAuth token per integration name ("gmail", ...).
// The backend is chosen once per deployment.
type TokenStore interface {
	// Get retrieves the token for integration.
	// Returns nil, nil if nothing has been stored.
	Get(ctx context.Context, integration string) (*domain.StoredToken, error)

	// Put stores the token, replacing any previous one.
	Put(ctx context.Context, integration string, token domain.StoredToken) error
}
