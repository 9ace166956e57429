// Package cli implements the tinatools command line: the webhook server,
// the MCP server, one-shot calls and the Google token lifecycle.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JeanYan3D/tinatools/internal/adapters/driven/config/file"
	"github.com/JeanYan3D/tinatools/internal/app"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	configPath string
	envFile    string
	verbose    bool
)

// loadSettings is replaced in tests.
var loadSettings = func() (*domain.Settings, error) {
	return file.LoadSettings(file.LoadOptions{ConfigPath: configPath, EnvFile: envFile})
}

var rootCmd = &cobra.Command{
	Use:   "tinatools",
	Short: "Google Workspace tools for voice and AI assistants",
	Long: `tinatools answers tool calls from voice assistants such as Vapi with
Google Contacts, Gmail and Google Docs operations.

Run 'tinatools auth login' once to authorize a Google account, then
'tinatools serve' to accept webhook calls or 'tinatools mcp serve' to
expose the same operations to MCP clients.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.tinatools/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// openApp loads settings, configures logging and wires the services.
// The returned cleanup must be called once the command is done.
func openApp(cmd *cobra.Command) (*app.App, func(), error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	logCloser, err := logger.Configure(logger.Options{
		Level:      settings.Log.Level,
		Format:     settings.Log.Format,
		File:       settings.Log.File,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(cmd.Context(), settings)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Error(err, "close token store")
		}
		_ = logCloser.Close()
	}
	return a, cleanup, nil
}
