package storage

import (
	"os"
	"path/filepath"
	"testing"

	"revealtimer/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := loadSettingsFile(filepath.Join(t.TempDir(), settingsFileName), preferences.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RevealTimer", settingsFileName)
	saved := preferences.Settings{
		DefaultMinutes:  15,
		SoundEnabled:    false,
		Fullscreen:      true,
		Volume:          0.4,
		TickSound:       "/sounds/beep.ogg",
		CompletionSound: "/sounds/kogg.ogg",
		RemoteAddr:      ":8089",
		LogLevel:        "debug",
	}
	require.NoError(t, saveSettingsFile(path, saved))

	loaded, err := loadSettingsFile(path, preferences.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSettingsIgnoreInvalidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	raw := "default_minutes: 500\nvolume: 3\nlog_level: loud\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	loaded, err := loadSettingsFile(path, preferences.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 60, loaded.DefaultMinutes)
	assert.Equal(t, 1.0, loaded.Volume)
	assert.Equal(t, "info", loaded.LogLevel)
	assert.True(t, loaded.SoundEnabled)
}

func TestSettingsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("default_minutes: [oops"), 0o644))

	loaded, err := loadSettingsFile(path, preferences.DefaultSettings())
	assert.Error(t, err)
	assert.Equal(t, preferences.DefaultSettings(), loaded)
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	env := map[string]string{
		EnvMinutes:    "90",
		EnvSound:      "false",
		EnvFullscreen: "true",
		EnvVolume:     "0.25",
		EnvRemoteAddr: "127.0.0.1:9000",
		EnvLogLevel:   "warn",
		EnvTickSound:  "tick.wav",
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	settings := applyLookup(preferences.DefaultSettings(), lookup)
	assert.Equal(t, 60, settings.DefaultMinutes)
	assert.False(t, settings.SoundEnabled)
	assert.True(t, settings.Fullscreen)
	assert.Equal(t, 0.25, settings.Volume)
	assert.Equal(t, "127.0.0.1:9000", settings.RemoteAddr)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.Equal(t, "tick.wav", settings.TickSound)
	assert.Empty(t, settings.CompletionSound)
}

func TestApplyEnvironmentIgnoresMalformed(t *testing.T) {
	env := map[string]string{EnvMinutes: "ten", EnvSound: "maybe", EnvVolume: "-1"}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	assert.Equal(t, preferences.DefaultSettings(), applyLookup(preferences.DefaultSettings(), lookup))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvMinutes+"=7\n"), 0o644))
	t.Setenv(EnvMinutes, "")
	require.NoError(t, os.Unsetenv(EnvMinutes))

	LoadDotEnv(path)
	assert.Equal(t, 7, ApplyEnvironment(preferences.DefaultSettings()).DefaultMinutes)
	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}
