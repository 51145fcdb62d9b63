// Package project persists ShelfPlan's user data as JSON files under
// ~/.shelfplan/: preferences, custom rack templates, the product catalog and
// backup bundles. It also reads TOML fill plans for the command line tool.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.shelfplan/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".shelfplan")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// writeJSON marshals v with indentation and writes it to path, creating any
// missing parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
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
		return model.AppConfig{}, err
	}
	normalizeConfig(&config)
	return config, nil
}

// normalizeConfig repairs values a hand-edited or older file may lack.
func normalizeConfig(config *model.AppConfig) {
	if config.RecentCatalogs == nil {
		config.RecentCatalogs = []string{}
	}
	if config.PixelsPerCm <= 0 {
		config.PixelsPerCm = model.PixelsPerCm
	}
	if config.DefaultTemplateID == "" {
		config.DefaultTemplateID = model.DefaultTemplateID
	}
}
