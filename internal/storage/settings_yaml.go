package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"revealtimer/internal/core/model"
	"revealtimer/internal/platform"
	"revealtimer/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DefaultMinutes  int      `yaml:"default_minutes"`
	SoundEnabled    *bool    `yaml:"sound_enabled"`
	Fullscreen      bool     `yaml:"fullscreen"`
	Volume          *float64 `yaml:"volume"`
	TickSound       string   `yaml:"tick_sound"`
	CompletionSound string   `yaml:"completion_sound"`
	RemoteAddr      string   `yaml:"remote_addr"`
	LogLevel        string   `yaml:"log_level"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return settings, err
	}
	return loadSettingsFile(configPath, settings)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return err
	}
	return saveSettingsFile(configPath, settings)
}

func loadSettingsFile(configPath string, settings preferences.Settings) (preferences.Settings, error) {
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func saveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	soundEnabled := settings.SoundEnabled
	volume := settings.Volume
	fileData := yamlSettings{
		DefaultMinutes:  settings.DefaultMinutes,
		SoundEnabled:    &soundEnabled,
		Fullscreen:      settings.Fullscreen,
		Volume:          &volume,
		TickSound:       settings.TickSound,
		CompletionSound: settings.CompletionSound,
		RemoteAddr:      settings.RemoteAddr,
		LogLevel:        settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName, fileName string) (string, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.DefaultMinutes > 0 {
		settings.DefaultMinutes = model.ClampMinutes(fileData.DefaultMinutes)
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.Volume != nil && *fileData.Volume >= 0 && *fileData.Volume <= 1 {
		settings.Volume = *fileData.Volume
	}
	if isKnownLevel(fileData.LogLevel) {
		settings.LogLevel = fileData.LogLevel
	}

	settings.Fullscreen = fileData.Fullscreen
	settings.TickSound = fileData.TickSound
	settings.CompletionSound = fileData.CompletionSound
	settings.RemoteAddr = fileData.RemoteAddr
}

func isKnownLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
