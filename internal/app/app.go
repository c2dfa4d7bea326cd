// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/sargamapp/sargam/internal/adapter/audio/beep"
	"github.com/sargamapp/sargam/internal/adapter/audio/mock"
	"github.com/sargamapp/sargam/internal/adapter/catalog/saavn"
	"github.com/sargamapp/sargam/internal/adapter/eventbus"
	"github.com/sargamapp/sargam/internal/adapter/repository/kv"
	"github.com/sargamapp/sargam/internal/adapter/storage/prefskv"
	"github.com/sargamapp/sargam/internal/adapter/transfer"
	fyneui "github.com/sargamapp/sargam/internal/adapter/ui/fyne"
	"github.com/sargamapp/sargam/internal/config"
	"github.com/sargamapp/sargam/internal/logger"
	"github.com/sargamapp/sargam/internal/ports"
	"github.com/sargamapp/sargam/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus    ports.EventBus
	audioEngine ports.AudioEngine
	catalog     ports.CatalogClient

	// Repositories
	historyRepo   ports.HistoryRepository
	favoritesRepo ports.FavoritesRepository
	playlistRepo  ports.PlaylistRepository
	downloadsRepo ports.DownloadsRepository
	settingsRepo  ports.SettingsRepository

	// Services
	playerService    *service.PlayerService
	libraryService   *service.LibraryService
	favoritesService *service.FavoritesService
	playlistService  *service.PlaylistService
	downloadService  *service.DownloadService
	settingsService  *service.SettingsService

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// File holds the settings loaded from config.toml (API endpoint,
	// page size, timeouts, download directory, audio engine choice).
	File *config.Config

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig(fileCfg *config.Config) Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:    "com.sargam.app",
		AppName:  "Sargam",
		File:     fileCfg,
		LogLevel: loggerCfg.Level,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg Config) (*Application, error) {
	if cfg.File == nil {
		return nil, errors.New("app: file configuration is required")
	}

	app := &Application{}

	// Step 1: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 2: Create logger
	app.logger = logger.NewLogger(logger.Config{
		Level:  cfg.LogLevel,
		Format: "text",
	})
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("app_name", cfg.AppName))

	// Step 3: Create the event bus
	app.eventBus = eventbus.NewSyncEventBus(
		app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create the audio engine
	if cfg.File.Audio.UseMock {
		app.audioEngine = mock.NewEngine()
	} else {
		engine, err := beep.NewEngine(cfg.File.API.Timeout(),
			app.logger.With(slog.String("engine", "beep")))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audio engine: %w", err)
		}
		app.audioEngine = engine
	}

	// Step 5: Create the catalog client
	app.catalog = saavn.NewClient(
		cfg.File.API.BaseURL,
		cfg.File.API.Timeout(),
		app.logger.With(slog.String("component", "catalog")))

	// Step 6: Create repositories on top of Fyne preferences
	store := prefskv.NewStore(app.fyneApp.Preferences())
	app.historyRepo = kv.NewHistoryRepository(store)
	app.favoritesRepo = kv.NewFavoritesRepository(store)
	app.playlistRepo = kv.NewPlaylistRepository(store)
	app.downloadsRepo = kv.NewDownloadsRepository(store)
	app.settingsRepo = kv.NewSettingsRepository(store)

	// Step 7: Create services (with dependency injection)
	app.downloadService = service.NewDownloadService(
		app.logger.With(slog.String("service", "download")),
		app.downloadsRepo,
		transfer.NewHTTPTransfer(cfg.File.API.Timeout(),
			app.logger.With(slog.String("component", "transfer"))),
		app.eventBus,
		app.downloadDir(cfg),
	)

	app.playerService = service.NewPlayerService(
		app.logger.With(slog.String("service", "player")),
		app.audioEngine,
		app.eventBus,
		app.historyRepo,
		app.catalog,
		app.downloadService,
	)

	app.libraryService = service.NewLibraryService(
		app.logger.With(slog.String("service", "library")),
		app.catalog,
		cfg.File.API.PageSize,
	)

	app.favoritesService = service.NewFavoritesService(
		app.logger.With(slog.String("service", "favorites")),
		app.favoritesRepo,
		app.eventBus,
	)

	app.playlistService = service.NewPlaylistService(
		app.logger.With(slog.String("service", "playlist")),
		app.playlistRepo,
		app.eventBus,
	)

	app.settingsService = service.NewSettingsService(
		app.logger.With(slog.String("service", "settings")),
		app.settingsRepo,
		app.eventBus,
	)

	// Step 8: Restore the previous session (queue, cursor, play mode)
	if err := app.playerService.Restore(context.Background()); err != nil {
		// Non-fatal, start with an empty queue
		app.logger.Warn("failed to restore saved state", slog.Any("error", err))
	}

	// Step 9: Create UI and wire the presenter
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp)
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.playerService,
		app.libraryService,
		app.favoritesService,
		app.playlistService,
		app.downloadService,
		app.settingsService,
		app.eventBus,
		app.mainWindow,
	)
	app.mainWindow.SetPresenter(app.presenter)

	return app, nil
}

// GetServices returns the application services, mainly for tests.
func (a *Application) GetServices() (
	*service.PlayerService,
	*service.LibraryService,
	*service.FavoritesService,
	*service.PlaylistService,
	*service.DownloadService,
	*service.SettingsService,
) {
	return a.playerService, a.libraryService, a.favoritesService,
		a.playlistService, a.downloadService, a.settingsService
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the underlying Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// downloadDir resolves the directory for offline copies. An explicit
// configuration wins; otherwise downloads live under the Fyne storage root.
// Empty means downloads are unsupported.
func (a *Application) downloadDir(cfg Config) string {
	if cfg.File.Storage.DownloadDir != "" {
		return cfg.File.Storage.DownloadDir
	}
	storage := a.fyneApp.Storage()
	if storage == nil || storage.RootURI() == nil {
		return ""
	}
	root := storage.RootURI().Path()
	if root == "" {
		return ""
	}
	return filepath.Join(root, "downloads")
}

// Run starts the application.
// This is called from main.go after the application is created.
// It blocks until the main window is closed.
func (a *Application) Run() error {
	a.logger.Info("Sargam started", slog.String("version", GetVersionInfo().FullString()))
	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application.
// This should be called via defer in main.go.
func (a *Application) Shutdown() error {
	a.logger.Info("shutting down application")

	var errs []error

	// Shutdown UI and presenter first so no UI updates race the teardown
	if a.presenter != nil {
		a.presenter.Shutdown()
	}

	// Shutdown services (the player owns the live audio session)
	if a.playerService != nil {
		if err := a.playerService.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("player shutdown: %w", err))
		}
	}

	// Shutdown infrastructure
	if a.audioEngine != nil {
		if err := a.audioEngine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audio engine close: %w", err))
		}
	}
	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus close: %w", err))
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
