// Package project persists local application state under ~/.glassquote/:
// preferences, the UI mode, design templates, the catalog override and
// backups.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// DefaultConfigDir returns ~/.glassquote, or ./.glassquote when the home
// directory cannot be determined.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".glassquote")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// writeJSON creates missing parent directories and writes v indented.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0644)
}

// SaveAppConfig persists an AppConfig to path as JSON.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from path. A missing file yields
// DefaultAppConfig with no error. Fields absent from the file keep their
// defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.RecentExports == nil {
		config.RecentExports = []string{}
	}
	return config, nil
}
