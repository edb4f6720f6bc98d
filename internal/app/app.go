package app

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/config"
	"github.com/a-marczewski/memocare/internal/logging"
	"github.com/a-marczewski/memocare/internal/session"
	"github.com/a-marczewski/memocare/internal/settings"
	"github.com/a-marczewski/memocare/internal/storage"
	"github.com/a-marczewski/memocare/internal/voice"
)

// NewApp initializes and returns a new App instance.
func NewApp() (*App, error) {
	return NewAppWithEngine(voice.Null{})
}

// NewAppWithEngine initializes the App with a specific voice engine, so
// environments with a real speech stack can plug one in.
func NewAppWithEngine(engine voice.Engine) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLoggerWithStderr(cfg.LogLevel, cfg.LogFile, false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &App{
		Core: CoreModule{
			Config: cfg,
			Logger: logger,
			DB:     db,
		},
		Session:  session.Load(db, logger),
		Settings: settings.Load(db, logger),
		Voice: VoiceModule{
			Engine:  engine,
			Capture: voice.NewCapture(engine, logger),
		},
	}, nil
}

// AddedBy maps the caregiver-mode setting to memory provenance.
func (a *App) AddedBy() string {
	if a.Settings.CaregiverMode {
		return "caregiver"
	}
	return "self"
}

// Speak vocalizes text when the voice setting and capability allow it.
func (a *App) Speak(text string) {
	if a.Settings.VoiceEnabled && a.Voice.Engine.Supported() {
		a.Voice.Engine.Speak(text)
	}
}

// Close gracefully shuts down the application resources.
func (a *App) Close() {
	if a.Core.DB != nil {
		if err := a.Core.DB.Close(); err != nil {
			a.Core.Logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
	if a.Core.Logger != nil {
		if err := a.Core.Logger.Sync(); err != nil {
			// Syncing stderr is not supported on every platform; only
			// surface unexpected failures.
			if !strings.Contains(err.Error(), "invalid argument") &&
				!strings.Contains(err.Error(), "inappropriate ioctl for device") &&
				!strings.Contains(err.Error(), "bad file descriptor") {
				fmt.Fprintf(os.Stderr, "Error syncing logger: %v\n", err)
			}
		}
	}
}
