// Package logger provides the process-wide zerolog logger for tinatools.
// When verbose mode is enabled via the --verbose flag, debug messages
// are emitted to help operators follow payload normalization and token
// refresh decisions.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the global logger.
type Options struct {
	// Level is a zerolog level name. Empty means "info".
	Level string
	// Format is "console" or "json".
	Format string
	// File, when set, receives a JSON copy of every line, rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu      sync.RWMutex
	verbose bool
	level   = zerolog.InfoLevel
	log     = newLogger(consoleWriter(os.Stderr))
	rotator *lumberjack.Logger
)

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stderr}
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// Configure replaces the global logger. The returned closer releases the
// rotated log file, if any.
func Configure(opts Options) (io.Closer, error) {
	lvl := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		lvl = parsed
	}

	var w io.Writer
	switch opts.Format {
	case "", "console":
		w = consoleWriter(os.Stderr)
	case "json":
		w = os.Stderr
	default:
		return nil, fmt.Errorf("log format %q: must be console or json", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		w = zerolog.MultiLevelWriter(w, file)
		closer = file
	}

	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		_ = rotator.Close()
	}
	rotator = file
	level = lvl
	log = newLogger(w).Level(effectiveLevel())
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// effectiveLevel must be called with mu held.
func effectiveLevel() zerolog.Level {
	if verbose && level > zerolog.DebugLevel {
		return zerolog.DebugLevel
	}
	return level
}

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = log.Level(effectiveLevel())
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sends plain console output to w.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(consoleWriter(w)).Level(effectiveLevel())
}

// Get returns the global logger for structured events.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	Get().Debug().Msgf(format, args...)
}

// Section marks the start of a multi-step operation in verbose output.
func Section(name string) {
	Get().Debug().Str("section", name).Msg("===")
}

// Info logs a formatted message at info level.
func Info(format string, args ...any) {
	Get().Info().Msgf(format, args...)
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) {
	Get().Warn().Msgf(format, args...)
}

// Error logs err with a formatted message at error level.
func Error(err error, format string, args ...any) {
	Get().Error().Err(err).Msgf(format, args...)
}
