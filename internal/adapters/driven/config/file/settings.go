package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/sqlstore"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// LoadOptions locates the configuration sources.
type LoadOptions struct {
	// ConfigPath is the TOML file. Empty means ~/.tinatools/config.toml.
	ConfigPath string

	// EnvFile is a dotenv file. Empty means ".env" in the working directory.
	// A missing file is not an error.
	EnvFile string

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// LoadSettings merges defaults, the TOML file, the dotenv file and the
// environment, then validates the result.
func LoadSettings(opts LoadOptions) (*domain.Settings, error) {
	dataDir, err := DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	settings := domain.DefaultSettings(dataDir)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(dataDir, "config.toml")
	}
	cfg, err := readConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}
	applyFile(&settings, cfg)

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := applyEnv(&settings, lookup); err != nil {
		return nil, err
	}

	settings.TokenStore.Dir = expandHome(settings.TokenStore.Dir)
	settings.Google.CredentialsFile = expandHome(settings.Google.CredentialsFile)
	settings.Log.File = expandHome(settings.Log.File)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func applyFile(s *domain.Settings, cfg *fileConfig) {
	setString(&s.Server.Addr, cfg.Server.Addr)
	setString((*string)(&s.Server.Envelope), cfg.Server.Envelope)

	setString(&s.Log.Level, cfg.Log.Level)
	setString(&s.Log.Format, cfg.Log.Format)
	setString(&s.Log.File, cfg.Log.File)
	setInt(&s.Log.MaxSizeMB, cfg.Log.MaxSizeMB)
	setInt(&s.Log.MaxBackups, cfg.Log.MaxBackups)
	setInt(&s.Log.MaxAgeDays, cfg.Log.MaxAgeDays)

	setString(&s.Google.ClientID, cfg.Google.ClientID)
	setString(&s.Google.ClientSecret, cfg.Google.ClientSecret)
	setString(&s.Google.CredentialsFile, cfg.Google.CredentialsFile)
	setString(&s.Google.RedirectURL, cfg.Google.RedirectURL)
	setString(&s.Google.ShareWith, cfg.Google.ShareWith)
	if len(cfg.Google.Scopes) > 0 {
		s.Google.Scopes = cfg.Google.Scopes
	}

	setString((*string)(&s.TokenStore.Backend), cfg.TokenStore.Backend)
	setString(&s.TokenStore.Dir, cfg.TokenStore.Dir)
	setString((*string)(&s.TokenStore.Driver), cfg.TokenStore.Driver)
	setString(&s.TokenStore.DSN, cfg.TokenStore.DSN)
	setString(&s.TokenStore.RedisURL, cfg.TokenStore.RedisURL)
}

func applyEnv(s *domain.Settings, lookup func(string) (string, bool)) error {
	env := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if port := env("PORT"); port != "" {
		s.Server.Addr = ":" + port
	}
	setString(&s.Server.Addr, env("TINATOOLS_ADDR"))
	setString((*string)(&s.Server.Envelope), env("TINATOOLS_ENVELOPE"))

	setString(&s.Log.Level, env("TINATOOLS_LOG_LEVEL"))
	setString(&s.Log.Format, env("TINATOOLS_LOG_FORMAT"))
	setString(&s.Log.File, env("TINATOOLS_LOG_FILE"))

	setString(&s.Google.ClientID, env("GOOGLE_CLIENT_ID"))
	setString(&s.Google.ClientSecret, env("GOOGLE_CLIENT_SECRET"))
	setString(&s.Google.CredentialsFile, env("GOOGLE_CREDENTIALS_FILE"))
	setString(&s.Google.CredentialsJSON, env("GOOGLE_OAUTH_CREDENTIALS_JSON"))
	setString(&s.Google.RedirectURL, env("GOOGLE_REDIRECT_URL"))
	setString(&s.Google.ShareWith, env("GOOGLE_SHARE_WITH"))

	setString((*string)(&s.TokenStore.Backend), env("TINATOOLS_TOKEN_BACKEND"))
	setString(&s.TokenStore.Dir, env("TINATOOLS_TOKEN_DIR"))
	setString((*string)(&s.TokenStore.Driver), env("DATABASE_DRIVER"))
	setString(&s.TokenStore.RedisURL, env("REDIS_URL"))

	if raw := env("DATABASE_URL"); raw != "" {
		driver, dsn, err := databaseURL(raw, s.TokenStore.Driver)
		if err != nil {
			return fmt.Errorf("DATABASE_URL: %w", err)
		}
		s.TokenStore.Driver, s.TokenStore.DSN = driver, dsn
	}
	// ClearDB is the MySQL add-on of the original hosting platform.
	if raw := env("CLEARDB_DATABASE_URL"); raw != "" {
		dsn, err := sqlstore.MySQLDSNFromURL(raw)
		if err != nil {
			return fmt.Errorf("CLEARDB_DATABASE_URL: %w", err)
		}
		s.TokenStore.Driver, s.TokenStore.DSN = domain.SQLDriverMySQL, dsn
	}
	return nil
}

// databaseURL infers the driver from the URL scheme. Unrecognised values are
// passed through as a DSN for the configured driver.
func databaseURL(raw string, current domain.SQLDriver) (domain.SQLDriver, string, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return domain.SQLDriverPostgres, raw, nil
	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := sqlstore.MySQLDSNFromURL(raw)
		if err != nil {
			return "", "", err
		}
		return domain.SQLDriverMySQL, dsn, nil
	default:
		return current, raw, nil
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
