package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up in the config directories.
const ConfigFile = "droplit.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.droplit/configs/droplit.yaml -> ./configs/droplit.yaml -> embedded default
//
// Files found in the search directories that fail to parse or validate are
// skipped. A custom path must exist and be valid.
func Load(customPath string) (DroplitConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DroplitConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return DroplitConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultDroplitYAML)
	if err != nil {
		return DefaultDroplitConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults, so omitted sections keep
// their default values, then validates the result.
func Parse(data []byte) (DroplitConfig, error) {
	cfg := DefaultDroplitConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DroplitConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return DroplitConfig{}, err
	}
	preset, _ := ParsePreset(string(cfg.Difficulty))
	ApplyPreset(&cfg, preset)
	return cfg, nil
}

// HomeDir returns ~/.droplit, or empty if home is unavailable.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".droplit")
}

// UserConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func UserConfigPath(filename string) string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}
