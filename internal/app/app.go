// Package app wires configuration, storage, clients, and services into the
// shared application core used by cmd/pulse-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/pulse/internal/clients/gemini"
	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/services/calendar"
	"github.com/bobmcallan/pulse/internal/services/follow"
	"github.com/bobmcallan/pulse/internal/services/notify"
	"github.com/bobmcallan/pulse/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	EarningsClient  interfaces.EarningsClient
	Notifier        interfaces.Notifier
	CalendarService interfaces.CalendarService
	FollowService   interfaces.FollowService
	NotifyService   interfaces.NotifyService
	StartupTime     time.Time

	scheduler *scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, the Gemini client, and all
// services. configPath may be empty, in which case the default resolution
// logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, PULSE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("PULSE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "pulse.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/pulse.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative paths to the binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	geminiKey, err := common.ResolveAPIKey(ctx, storageManager.SettingsStore(), "gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - calendar refresh will be unavailable")
	}

	var earningsClient interfaces.EarningsClient
	if geminiKey != "" {
		client, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithExchange(config.Calendar.Exchange),
			gemini.WithWindowDays(config.Calendar.WindowDays),
			gemini.WithTimeout(config.Clients.Gemini.GetTimeout()),
			gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
		)
		if err != nil {
			storageManager.Close()
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		earningsClient = client
	}

	notifier := notify.NewLogNotifier(storageManager.SettingsStore(), logger)

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		EarningsClient:  earningsClient,
		Notifier:        notifier,
		CalendarService: calendar.NewService(storageManager, earningsClient, logger),
		FollowService:   follow.NewService(storageManager, notifier, logger),
		NotifyService:   notify.NewService(notifier, logger),
		StartupTime:     time.Now(),
	}

	return a, nil
}

// RefreshAndNotify performs one refresh cycle and, on a successful data
// load (cache-hit or fetch), runs the notification check.
func (a *App) RefreshAndNotify(ctx context.Context, force bool) (err error) {
	state, err := a.CalendarService.Refresh(ctx, force)
	if err != nil {
		return err
	}

	follows, err := a.FollowService.List(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Skipping notification check, follow list unavailable")
		return nil
	}

	if _, err := a.NotifyService.Check(ctx, state.Events, follows); err != nil {
		a.Logger.Warn().Err(err).Msg("Notification check failed")
	}
	return nil
}

// Close releases application resources.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
}
