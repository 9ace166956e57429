// Package app wires the configured adapters into the core services.
// Driving adapters (webhook, mcp, cli) receive what they need from App.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/api/option"

	"github.com/JeanYan3D/tinatools/internal/adapters/driven/oauth"
	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage"
	"github.com/JeanYan3D/tinatools/internal/connectors/google"
	"github.com/JeanYan3D/tinatools/internal/connectors/google/docs"
	"github.com/JeanYan3D/tinatools/internal/connectors/google/gmail"
	"github.com/JeanYan3D/tinatools/internal/connectors/google/people"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
	"github.com/JeanYan3D/tinatools/internal/core/services"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

// App holds the wired services for one process.
type App struct {
	Settings *domain.Settings

	Store      driven.TokenStore
	Tokens     *services.TokenRefresher
	Auth       *services.AuthorizationService
	Normalizer *services.PayloadNormalizer
	Dispatcher *services.OperationDispatcher

	// Integration is the token name the Google connectors use.
	Integration string

	closer io.Closer
}

// New opens the token store and builds every service. googleOpts are
// appended to each Google API service, mainly to redirect them in tests.
func New(ctx context.Context, settings *domain.Settings, googleOpts ...option.ClientOption) (*App, error) {
	if settings == nil {
		return nil, errors.New("app: settings are required")
	}
	logger.Section("wiring")

	store, closer, err := storage.NewTokenStore(ctx, settings.TokenStore)
	if err != nil {
		return nil, fmt.Errorf("open %s token store: %w", settings.TokenStore.Backend, err)
	}
	logger.Debug("token store: %s", settings.TokenStore.Backend)

	var exchanger driven.TokenExchanger
	if settings.Google.HasClient() {
		cfg, err := oauth.ConfigFromSettings(settings.Google)
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		exchanger = oauth.NewExchanger(cfg)
	} else {
		logger.Warn("no Google OAuth client configured; expired tokens cannot be refreshed")
	}

	tokens := services.NewTokenRefresher(store, exchanger)
	client := google.NewClient(tokens, google.DefaultIntegration, googleOpts...)

	contacts := services.NewContactService(people.NewDirectory(client))
	mail := services.NewMailService(gmail.NewMailbox(client))
	documents := services.NewDocumentService(docs.NewWriter(client), settings.Google.ShareWith)

	return &App{
		Settings:    settings,
		Store:       store,
		Tokens:      tokens,
		Auth:        services.NewAuthorizationService(exchanger, store),
		Normalizer:  services.NewPayloadNormalizer(),
		Dispatcher:  services.NewOperationDispatcher(contacts, mail, documents),
		Integration: google.DefaultIntegration,
		closer:      closer,
	}, nil
}

// Close releases the token store connection.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
