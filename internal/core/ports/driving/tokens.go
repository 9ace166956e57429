package driving

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// TokenService manages the OAuth token of each integration.
type TokenService interface {
	// Token returns a usable token, refreshing it when stale.
	Token(ctx context.Context, integration string) (*domain.StoredToken, error)

	// Status returns the stored token without refreshing it.
	// Returns nil, nil when nothing is stored.
	Status(ctx context.Context, integration string) (*domain.StoredToken, error)

	// Seed stores a token obtained out-of-band.
	Seed(ctx context.Context, integration string, token domain.StoredToken) error

	// ForceRefresh refreshes regardless of expiry.
	ForceRefresh(ctx context.Context, integration string) (*domain.StoredToken, error)
}

// AuthorizationSession is an in-flight consent flow.
type AuthorizationSession struct {
	URL          string
	State        string
	CodeVerifier string
	RedirectURL  string
}

// AuthorizationService runs the interactive OAuth consent flow.
type AuthorizationService interface {
	// Begin prepares a consent URL for redirectURL.
	Begin(redirectURL string) (*AuthorizationSession, error)

	// Complete exchanges the code and seeds the token store.
	Complete(ctx context.Context, integration string, session *AuthorizationSession, code string) (*domain.StoredToken, error)
}
