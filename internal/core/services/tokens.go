package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// Ensure TokenRefresher implements the interface.
var _ driving.TokenService = (*TokenRefresher)(nil)

// TokenRefresher hands out usable tokens, refreshing stale ones through the
// identity provider and writing them back to the store before returning.
// Refreshes are not serialised: concurrent callers may both refresh and the
// last write wins.
type TokenRefresher struct {
	store     driven.TokenStore
	exchanger driven.TokenExchanger
	now       func() time.Time
}

// NewTokenRefresher creates a refresher over store. exchanger may be nil
// when only stored, unexpired tokens are expected.
func NewTokenRefresher(store driven.TokenStore, exchanger driven.TokenExchanger) *TokenRefresher {
	return &TokenRefresher{
		store:     store,
		exchanger: exchanger,
		now:       time.Now,
	}
}

// Token returns a token usable now for integration.
func (r *TokenRefresher) Token(ctx context.Context, integration string) (*domain.StoredToken, error) {
	tok, err := r.Status(ctx, integration)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, &domain.ReauthorizationError{Integration: integration, Reason: "no token stored"}
	}
	if !tok.IsExpired(r.now()) {
		return tok, nil
	}
	if !tok.HasRefreshToken() {
		return nil, &domain.ReauthorizationError{
			Integration: integration,
			Reason:      "access token expired and no refresh token is stored",
		}
	}

	logger.Debug("%s token expired at %s, refreshing", integration, tok.ExpiresAt.Format(time.RFC3339))
	return r.refresh(ctx, integration, tok)
}

// Status returns the stored token without refreshing it.
func (r *TokenRefresher) Status(ctx context.Context, integration string) (*domain.StoredToken, error) {
	if r.store == nil {
		return nil, domain.ErrNotImplemented
	}
	tok, err := r.store.Get(ctx, integration)
	if err != nil {
		return nil, fmt.Errorf("load %s token: %w", integration, err)
	}
	return tok, nil
}

// Seed stores a token obtained out-of-band.
func (r *TokenRefresher) Seed(ctx context.Context, integration string, token domain.StoredToken) error {
	if r.store == nil {
		return domain.ErrNotImplemented
	}
	if integration == "" {
		return fmt.Errorf("%w: integration name is required", domain.ErrInvalidInput)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return fmt.Errorf("%w: token has neither an access token nor a refresh token", domain.ErrInvalidInput)
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	token.Scopes = domain.NormalizeScopes(token.Scopes)
	return r.store.Put(ctx, integration, token)
}

// ForceRefresh refreshes the token regardless of its expiry.
func (r *TokenRefresher) ForceRefresh(ctx context.Context, integration string) (*domain.StoredToken, error) {
	tok, err := r.Status(ctx, integration)
	if err != nil {
		return nil, err
	}
	if tok == nil || !tok.HasRefreshToken() {
		return nil, &domain.ReauthorizationError{Integration: integration, Reason: "no refresh token stored"}
	}
	return r.refresh(ctx, integration, tok)
}

func (r *TokenRefresher) refresh(ctx context.Context, integration string, old *domain.StoredToken) (*domain.StoredToken, error) {
	if r.exchanger == nil {
		return nil, domain.ErrNotImplemented
	}

	fresh, err := r.exchanger.Refresh(ctx, old.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrReauthorizationRequired) {
			return nil, &domain.ReauthorizationError{
				Integration: integration,
				Reason:      "refresh token was rejected",
			}
		}
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			return nil, err
		}
		return nil, &domain.UpstreamError{Service: "oauth2", Err: err}
	}

	// Google omits the refresh token and sometimes the scope on refresh.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = old.RefreshToken
	}
	if len(fresh.Scopes) == 0 {
		fresh.Scopes = old.Scopes
	}
	if fresh.TokenType == "" {
		fresh.TokenType = old.TokenType
	}

	if err := r.store.Put(ctx, integration, *fresh); err != nil {
		logger.Get().Warn().Err(err).
			Str("integration", integration).
			Msg("refreshed token could not be persisted; it will be refreshed again next time")
	} else {
		logger.Debug("%s token refreshed, valid until %s", integration, fresh.ExpiresAt.Format(time.RFC3339))
	}
	return fresh, nil
}
