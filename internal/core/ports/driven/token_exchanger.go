package driven

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// AuthorizationRequest describes a consent URL to send the operator to.
type AuthorizationRequest struct {
	State         string
	CodeChallenge string
	RedirectURL   string
}

// TokenExchanger talks to the identity provider's token endpoint.
type TokenExchanger interface {
	// Refresh exchanges a refresh token for a new access token.
	// The returned token may omit the refresh token and scopes.
	Refresh(ctx context.Context, refreshToken string) (*domain.StoredToken, error)

	// AuthCodeURL builds the consent URL for an offline-access grant.
	AuthCodeURL(req AuthorizationRequest) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code, codeVerifier, redirectURL string) (*domain.StoredToken, error)
}
