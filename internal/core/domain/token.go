package domain

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// StoredToken is the OAuth2 token persisted for one integration.
// It is owned by the token store and replaced wholesale on refresh.
type StoredToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string
	// RefreshToken is used to obtain new access tokens. Empty when absent.
	RefreshToken string
	// TokenType is typically "Bearer".
	TokenType string
	// ExpiresAt is when the access token expires.
	ExpiresAt time.Time
	// Scopes granted to the token, sorted and de-duplicated.
	Scopes []string
}

// IsExpired reports whether the token must not be used at now.
// A token without an expiry is treated as expired.
func (t *StoredToken) IsExpired(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return true
	}
	return !t.ExpiresAt.After(now)
}

// HasRefreshToken reports whether the token can be refreshed without consent.
func (t *StoredToken) HasRefreshToken() bool {
	return t.RefreshToken != ""
}

// HasScope reports whether scope was granted.
func (t *StoredToken) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Masked returns a copy safe for display.
func (t *StoredToken) Masked() StoredToken {
	c := *t
	c.AccessToken = maskSecret(t.AccessToken)
	c.RefreshToken = maskSecret(t.RefreshToken)
	return c
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// NormalizeScopes sorts and de-duplicates scopes, dropping blanks.
func NormalizeScopes(scopes []string) []string {
	seen := make(map[string]struct{}, len(scopes))
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

type storedTokenJSON struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	TokenType    string          `json:"token_type,omitempty"`
	Expiry       *time.Time      `json:"expiry,omitempty"`
	Scope        json.RawMessage `json:"scope,omitempty"`

	// Google PHP client form.
	Created   int64 `json:"created,omitempty"`
	ExpiresIn int64 `json:"expires_in,omitempty"`
}

// MarshalJSON writes the token in the golang.org/x/oauth2 field layout with
// a space-delimited scope string.
func (t StoredToken) MarshalJSON() ([]byte, error) {
	out := storedTokenJSON{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if !t.ExpiresAt.IsZero() {
		expiry := t.ExpiresAt.UTC()
		out.Expiry = &expiry
	}
	if len(t.Scopes) > 0 {
		scope, err := json.Marshal(strings.Join(t.Scopes, " "))
		if err != nil {
			return nil, err
		}
		out.Scope = scope
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both the oauth2 layout and the Google PHP client
// layout ({created, expires_in}); scope may be a string or an array.
func (t *StoredToken) UnmarshalJSON(data []byte) error {
	var in storedTokenJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*t = StoredToken{
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		TokenType:    in.TokenType,
	}

	switch {
	case in.Expiry != nil:
		t.ExpiresAt = in.Expiry.UTC()
	case in.Created > 0 && in.ExpiresIn > 0:
		t.ExpiresAt = time.Unix(in.Created+in.ExpiresIn, 0).UTC()
	}

	if len(in.Scope) > 0 {
		var asString string
		if err := json.Unmarshal(in.Scope, &asString); err == nil {
			t.Scopes = NormalizeScopes(strings.Fields(asString))
			return nil
		}
		var asList []string
		if err := json.Unmarshal(in.Scope, &asList); err != nil {
			return err
		}
		t.Scopes = NormalizeScopes(asList)
	}
	return nil
}
