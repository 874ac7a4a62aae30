package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/meco-pipeline/mecosettings/env"
	"github.com/meco-pipeline/mecosettings/fileutil"
)

const ConfigFileName = "config.json"

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mecosettings"), nil
}

// Config represents the application configuration
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level"`
	// Color is auto, always or never.
	Color string `json:"color"`
	// CustomEnv is added to the pre build phase of every environment.
	CustomEnv []env.Variable `json:"custom_env"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		Color:     "auto",
		CustomEnv: []env.Variable{},
	}
}

// Validate checks the custom variables have names.
func (c *Config) Validate() error {
	for i, v := range c.CustomEnv {
		if v.Name == "" {
			return fmt.Errorf("custom_env[%d]: variable name cannot be empty", i)
		}
	}
	return nil
}

// ErrInvalidConfig is returned when the config file exists but cannot be used.
var ErrInvalidConfig = errors.New("invalid config file")

// LoadConfig loads the configuration from disk. A missing file is created
// with the default configuration. On any other failure the default
// configuration is returned together with the error, so the caller can report
// it once logging is set up.
func LoadConfig() (*Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return DefaultConfig(), err
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				return defaultCfg, fmt.Errorf("failed to save default config: %w", saveErr)
			}
			return defaultCfg, nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := sonic.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("%w %s: %v", ErrInvalidConfig, configPath, err)
	}
	if err := config.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%w %s: %v", ErrInvalidConfig, configPath, err)
	}

	return config, nil
}

// saveConfig saves the configuration to disk
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := sonic.ConfigStd.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return fileutil.AtomicWrite(configPath, data, 0644)
}

// SaveConfig exports the saveConfig function for use by other packages
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	return saveConfig(config)
}
