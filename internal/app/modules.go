package app

import (
	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/config"
	"github.com/a-marczewski/memocare/internal/session"
	"github.com/a-marczewski/memocare/internal/settings"
	"github.com/a-marczewski/memocare/internal/storage"
	"github.com/a-marczewski/memocare/internal/voice"
)

// CoreModule holds the core application components
type CoreModule struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *storage.DB
}

// VoiceModule holds the speech boundary: the raw engine plus the single-slot
// capture register over it.
type VoiceModule struct {
	Engine  voice.Engine
	Capture *voice.Capture
}

// App groups the application components.
type App struct {
	Core     CoreModule
	Session  *session.Session
	Settings settings.Settings
	Voice    VoiceModule
}
