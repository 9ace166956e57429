package google

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// TokenProvider returns a valid token for an integration, refreshing it
// when needed. The token refresher service implements it.
type TokenProvider interface {
	Token(ctx context.Context, integration string) (*domain.StoredToken, error)
}

// TokenSourceAdapter adapts a TokenProvider to oauth2.TokenSource.
// It holds no cache: every call goes through the provider.
type TokenSourceAdapter struct {
	provider    TokenProvider
	integration string
	ctx         context.Context
}

// NewTokenSource creates an oauth2.TokenSource bound to ctx.
func NewTokenSource(ctx context.Context, provider TokenProvider, integration string) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider:    provider,
		integration: integration,
		ctx:         ctx,
	}
}

// Token implements oauth2.TokenSource.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	if t.provider == nil {
		return nil, errors.New("google: no token provider configured")
	}
	stored, err := t.provider.Token(t.ctx, t.integration)
	if err != nil {
		return nil, err
	}

	tokenType := stored.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken: stored.AccessToken,
		TokenType:   tokenType,
		Expiry:      stored.ExpiresAt,
	}, nil
}
