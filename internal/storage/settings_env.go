package storage

import (
	"os"
	"strconv"

	"revealtimer/internal/core/model"
	"revealtimer/internal/ui/preferences"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variables that override settings.yaml.
const (
	EnvMinutes         = "REVEALTIMER_MINUTES"
	EnvSound           = "REVEALTIMER_SOUND"
	EnvFullscreen      = "REVEALTIMER_FULLSCREEN"
	EnvVolume          = "REVEALTIMER_VOLUME"
	EnvTickSound       = "REVEALTIMER_TICK_SOUND"
	EnvCompletionSound = "REVEALTIMER_COMPLETION_SOUND"
	EnvRemoteAddr      = "REVEALTIMER_REMOTE_ADDR"
	EnvLogLevel        = "REVEALTIMER_LOG_LEVEL"
)

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
}

// ApplyEnvironment overrides settings with REVEALTIMER_* variables.
// Malformed values are ignored.
func ApplyEnvironment(settings preferences.Settings) preferences.Settings {
	return applyLookup(settings, os.LookupEnv)
}

func applyLookup(settings preferences.Settings, lookup func(string) (string, bool)) preferences.Settings {
	if value, ok := lookup(EnvMinutes); ok {
		if minutes, err := strconv.Atoi(value); err == nil {
			settings.DefaultMinutes = model.ClampMinutes(minutes)
		} else {
			log.Warn().Str("var", EnvMinutes).Str("value", value).Msg("ignoring malformed value")
		}
	}
	if value, ok := lookup(EnvSound); ok {
		if enabled, err := strconv.ParseBool(value); err == nil {
			settings.SoundEnabled = enabled
		}
	}
	if value, ok := lookup(EnvFullscreen); ok {
		if enabled, err := strconv.ParseBool(value); err == nil {
			settings.Fullscreen = enabled
		}
	}
	if value, ok := lookup(EnvVolume); ok {
		if volume, err := strconv.ParseFloat(value, 64); err == nil && volume >= 0 && volume <= 1 {
			settings.Volume = volume
		}
	}
	if value, ok := lookup(EnvTickSound); ok {
		settings.TickSound = value
	}
	if value, ok := lookup(EnvCompletionSound); ok {
		settings.CompletionSound = value
	}
	if value, ok := lookup(EnvRemoteAddr); ok {
		settings.RemoteAddr = value
	}
	if value, ok := lookup(EnvLogLevel); ok && isKnownLevel(value) {
		settings.LogLevel = value
	}
	return settings
}
