// Package settings holds the user-facing preferences blob. The query engine
// never reads these; the caller passes caregiverMode through as the addedBy
// argument when creating a memory.
package settings

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/storage"
)

// FontSize is the display size preference.
type FontSize string

const (
	FontNormal     FontSize = "normal"
	FontLarge      FontSize = "large"
	FontExtraLarge FontSize = "extra-large"
)

// Settings is the closed set of preferences persisted under the settings key.
type Settings struct {
	FontSize      FontSize `json:"fontSize"`
	HighContrast  bool     `json:"highContrast"`
	VoiceEnabled  bool     `json:"voiceEnabled"`
	CaregiverMode bool     `json:"caregiverMode"`
}

// Defaults returns the settings used when nothing has been persisted yet.
func Defaults() Settings {
	return Settings{
		FontSize:      FontLarge,
		HighContrast:  false,
		VoiceEnabled:  true,
		CaregiverMode: false,
	}
}

// Load reads the persisted settings; a missing or unreadable blob yields the
// defaults.
func Load(db *storage.DB, logger *zap.Logger) Settings {
	s := Defaults()
	if _, err := db.LoadJSON(storage.KeySettings, &s); err != nil {
		logger.Warn("Discarding unreadable settings entry", zap.Error(err))
		return Defaults()
	}
	return s
}

// Save persists the settings blob.
func Save(db *storage.DB, s Settings) error {
	return db.SaveJSON(storage.KeySettings, s)
}

// Update returns a copy of current with one named field changed. The field
// set is closed and small, so no reflection is involved.
func Update(current Settings, field, value string) (Settings, error) {
	switch field {
	case "fontSize":
		switch FontSize(value) {
		case FontNormal, FontLarge, FontExtraLarge:
			current.FontSize = FontSize(value)
		default:
			return current, fmt.Errorf("invalid fontSize %q (normal, large, extra-large)", value)
		}
	case "highContrast", "voiceEnabled", "caregiverMode":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return current, fmt.Errorf("invalid boolean %q for %s", value, field)
		}
		switch field {
		case "highContrast":
			current.HighContrast = enabled
		case "voiceEnabled":
			current.VoiceEnabled = enabled
		case "caregiverMode":
			current.CaregiverMode = enabled
		}
	default:
		return current, fmt.Errorf("unknown settings field %q", field)
	}
	return current, nil
}
