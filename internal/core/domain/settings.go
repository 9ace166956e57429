package domain

import (
	"errors"
	"fmt"
)

const unknownDescription = "Unknown"

// EnvelopeStyle selects the response body shape returned to webhook callers.
type EnvelopeStyle string

// Available envelope styles.
const (
	// EnvelopeVapi returns {"results":[{"toolCallId","result"|"error"}]}.
	// Non-string results are JSON-encoded into the result string.
	EnvelopeVapi EnvelopeStyle = "vapi"

	// EnvelopeVapiLegacy returns {"results":[{"tool_call_id","data"|"error"}]}.
	EnvelopeVapiLegacy EnvelopeStyle = "vapi-legacy"

	// EnvelopeGeneric returns {"success","data"|"message"}.
	EnvelopeGeneric EnvelopeStyle = "generic"
)

// IsValid returns true if the envelope style is recognised.
func (s EnvelopeStyle) IsValid() bool {
	switch s {
	case EnvelopeVapi, EnvelopeVapiLegacy, EnvelopeGeneric:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s EnvelopeStyle) String() string {
	return string(s)
}

// Description returns a human-readable description of the style.
func (s EnvelopeStyle) Description() string {
	switch s {
	case EnvelopeVapi:
		return "Vapi (toolCallId + result string)"
	case EnvelopeVapiLegacy:
		return "Vapi legacy (tool_call_id + data)"
	case EnvelopeGeneric:
		return "Generic (success + data/message)"
	default:
		return unknownDescription
	}
}

// TokenBackend identifies where OAuth tokens are persisted.
type TokenBackend string

// Available token backends.
const (
	// TokenBackendFile stores <dir>/<integration>_token.json.
	TokenBackendFile TokenBackend = "file"

	// TokenBackendEnv reads <INTEGRATION>_TOKEN_JSON from the environment.
	TokenBackendEnv TokenBackend = "env"

	// TokenBackendSQL stores one row per integration in oauth_tokens.
	TokenBackendSQL TokenBackend = "sql"

	// TokenBackendRedis stores one key per integration.
	TokenBackendRedis TokenBackend = "redis"

	// TokenBackendMemory keeps tokens in process memory only.
	TokenBackendMemory TokenBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b TokenBackend) IsValid() bool {
	switch b {
	case TokenBackendFile, TokenBackendEnv, TokenBackendSQL, TokenBackendRedis, TokenBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b TokenBackend) String() string {
	return string(b)
}

// SQLDriver names a database/sql driver used by the sql token backend.
type SQLDriver string

// Supported SQL drivers.
const (
	SQLDriverSQLite   SQLDriver = "sqlite"
	SQLDriverPostgres SQLDriver = "pgx"
	SQLDriverMySQL    SQLDriver = "mysql"
)

// IsValid returns true if the driver is recognised.
func (d SQLDriver) IsValid() bool {
	switch d {
	case SQLDriverSQLite, SQLDriverPostgres, SQLDriverMySQL:
		return true
	default:
		return false
	}
}

// ServerSettings holds webhook server configuration.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Envelope is the response shape returned to callers.
	Envelope EnvelopeStyle
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// Level is a zerolog level name ("debug", "info", ...).
	Level string

	// Format is "console" or "json".
	Format string

	// File, when set, receives a rotated copy of the log.
	File string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// GoogleSettings holds the OAuth client and Workspace options.
type GoogleSettings struct {
	ClientID     string
	ClientSecret string

	// CredentialsFile is a client_secret JSON downloaded from the Cloud console.
	CredentialsFile string

	// CredentialsJSON is the same document passed inline.
	CredentialsJSON string

	// RedirectURL overrides the redirect registered for the consent flow.
	RedirectURL string

	// Scopes requested during consent.
	Scopes []string

	// ShareWith is granted writer access to created documents.
	ShareWith string
}

// HasClient returns true if some form of OAuth client is configured.
func (g GoogleSettings) HasClient() bool {
	return g.CredentialsJSON != "" || g.CredentialsFile != "" || (g.ClientID != "" && g.ClientSecret != "")
}

// TokenStoreSettings holds token persistence configuration.
type TokenStoreSettings struct {
	// Backend is fixed per deployment.
	Backend TokenBackend

	// Dir is the directory of the file backend.
	Dir string

	// Driver and DSN configure the sql backend.
	Driver SQLDriver
	DSN    string

	// RedisURL configures the redis backend.
	RedisURL string
}

// Settings holds all application settings.
type Settings struct {
	Server     ServerSettings
	Log        LogSettings
	Google     GoogleSettings
	TokenStore TokenStoreSettings
}

// DefaultScopes are requested when no scopes are configured.
func DefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/contacts.readonly",
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://www.googleapis.com/auth/gmail.compose",
		"https://www.googleapis.com/auth/documents",
		"https://www.googleapis.com/auth/drive.file",
	}
}

// DefaultSettings returns settings with sensible defaults.
// dataDir is where the file token backend keeps its files.
func DefaultSettings(dataDir string) Settings {
	return Settings{
		Server: ServerSettings{
			Addr:     ":8080",
			Envelope: EnvelopeVapi,
		},
		Log: LogSettings{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Google: GoogleSettings{
			RedirectURL: "http://localhost:8080/oauth/callback",
			Scopes:      DefaultScopes(),
		},
		TokenStore: TokenStoreSettings{
			Backend: TokenBackendFile,
			Dir:     dataDir,
			Driver:  SQLDriverSQLite,
		},
	}
}

// Validate reports configuration errors that would fail at first use.
func (s *Settings) Validate() error {
	var errs []error
	if !s.Server.Envelope.IsValid() {
		errs = append(errs, fmt.Errorf("%w: envelope style %q", ErrInvalidInput, s.Server.Envelope))
	}
	if !s.TokenStore.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("%w: token backend %q", ErrInvalidInput, s.TokenStore.Backend))
	}
	switch s.TokenStore.Backend {
	case TokenBackendFile:
		if s.TokenStore.Dir == "" {
			errs = append(errs, fmt.Errorf("%w: token_store.dir is required for the file backend", ErrInvalidInput))
		}
	case TokenBackendSQL:
		if !s.TokenStore.Driver.IsValid() {
			errs = append(errs, fmt.Errorf("%w: sql driver %q", ErrInvalidInput, s.TokenStore.Driver))
		}
		// sqlite falls back to <dir>/tokens.db.
		if s.TokenStore.DSN == "" && s.TokenStore.Driver != SQLDriverSQLite {
			errs = append(errs, fmt.Errorf("%w: token_store.dsn is required for the %s driver", ErrInvalidInput, s.TokenStore.Driver))
		}
	case TokenBackendRedis:
		if s.TokenStore.RedisURL == "" {
			errs = append(errs, fmt.Errorf("%w: token_store.redis_url is required for the redis backend", ErrInvalidInput))
		}
	}
	return errors.Join(errs...)
}
