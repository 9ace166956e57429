package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions or a missing scope.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = fmt.Errorf("google: resource %w", domain.ErrNotFound)

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")

	// ErrUnavailable indicates a server-side failure.
	ErrUnavailable = errors.New("google: service unavailable")
)

// WrapError classifies an error returned by a Google API call into a
// domain.UpstreamError. Reauthorization errors from the token source and
// context cancellation pass through unchanged.
func WrapError(service ServiceType, err error) error {
	if err == nil {
		return nil
	}

	var reauth *domain.ReauthorizationError
	if errors.As(err, &reauth) {
		return reauth
	}
	if errors.Is(err, domain.ErrReauthorizationRequired) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return err
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &domain.UpstreamError{Service: string(service), Err: err}
	}

	var cause error
	switch {
	case gerr.Code == http.StatusUnauthorized:
		cause = ErrUnauthorized
	case gerr.Code == http.StatusForbidden:
		cause = ErrForbidden
	case gerr.Code == http.StatusNotFound:
		cause = ErrNotFound
	case gerr.Code == http.StatusTooManyRequests:
		cause = ErrRateLimited
	case gerr.Code >= http.StatusInternalServerError:
		cause = ErrUnavailable
	default:
		return &domain.UpstreamError{Service: string(service), StatusCode: gerr.Code, Err: gerr}
	}
	if gerr.Message != "" {
		cause = fmt.Errorf("%w: %s", cause, gerr.Message)
	}
	return &domain.UpstreamError{Service: string(service), StatusCode: gerr.Code, Err: cause}
}
