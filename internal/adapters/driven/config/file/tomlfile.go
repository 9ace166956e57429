package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDirName is the per-user directory holding config and tokens.
const DefaultDirName = ".tinatools"

// DefaultDir returns ~/.tinatools.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// fileConfig mirrors config.toml. Empty fields leave the defaults alone.
type fileConfig struct {
	Server struct {
		Addr     string `toml:"addr"`
		Envelope string `toml:"envelope"`
	} `toml:"server"`

	Log struct {
		Level      string `toml:"level"`
		Format     string `toml:"format"`
		File       string `toml:"file"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
		MaxAgeDays int    `toml:"max_age_days"`
	} `toml:"log"`

	Google struct {
		ClientID        string   `toml:"client_id"`
		ClientSecret    string   `toml:"client_secret"`
		CredentialsFile string   `toml:"credentials_file"`
		RedirectURL     string   `toml:"redirect_url"`
		Scopes          []string `toml:"scopes"`
		ShareWith       string   `toml:"share_with"`
	} `toml:"google"`

	TokenStore struct {
		Backend  string `toml:"backend"`
		Dir      string `toml:"dir"`
		Driver   string `toml:"driver"`
		DSN      string `toml:"dsn"`
		RedisURL string `toml:"redis_url"`
	} `toml:"token_store"`
}

// readConfigFile decodes the TOML file at path, rejecting unknown keys.
// A missing file yields an empty config.
func readConfigFile(path string) (*fileConfig, error) {
	cfg := &fileConfig{}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return nil, err
	}
	return cfg, nil
}
