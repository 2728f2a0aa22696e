package preferences

import (
	"revealtimer/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	DefaultMinutes int
	SoundEnabled   bool
	Fullscreen     bool
	Volume         float64

	TickSound       string
	CompletionSound string

	RemoteAddr string
	LogLevel   string
}

// DefaultSettings returns default settings for RevealTimer.
func DefaultSettings() Settings {
	return Settings{
		DefaultMinutes: model.DefaultMinutes,
		SoundEnabled:   true,
		Fullscreen:     false,
		Volume:         1,
		LogLevel:       "info",
	}
}

// TimerConfig converts settings to the countdown configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.NewTimerConfig(settings.DefaultMinutes)
}
