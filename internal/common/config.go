// Package common provides shared utilities for Pulse
package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/pulse/internal/interfaces"
)

// Config holds all configuration for Pulse
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Clients     ClientsConfig  `toml:"clients"`
	Calendar    CalendarConfig `toml:"calendar"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the BadgerHold data directory.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// CalendarConfig holds the earnings calendar fetch window and refresh schedule.
type CalendarConfig struct {
	Exchange    string `toml:"exchange"`     // exchange focus for the fetch prompt (default "Nasdaq")
	WindowDays  int    `toml:"window_days"`  // days ahead to request from the provider
	RefreshCron string `toml:"refresh_cron"` // cron spec for the background refresh
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/pulse",
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-2.5-flash",
				RateLimit: 2,
				Timeout:   "30s",
			},
		},
		Calendar: CalendarConfig{
			Exchange:    "Nasdaq",
			WindowDays:  30,
			RefreshCron: "0 */12 * * *",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console"},
			FilePath: "./logs/pulse.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PULSE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PULSE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PULSE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PULSE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PULSE_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "pulse")
	}

	if cron := os.Getenv("PULSE_REFRESH_CRON"); cron != "" {
		config.Calendar.RefreshCron = cron
	}

	if days := os.Getenv("PULSE_WINDOW_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			config.Calendar.WindowDays = d
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// ResolveAPIKey resolves an API key from environment, SettingsStore, or fallback
func ResolveAPIKey(ctx context.Context, store interfaces.SettingsStore, name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"GEMINI_API_KEY", "PULSE_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	// Environment variables take priority
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Then the settings store (set at runtime)
	if store != nil {
		apiKey, err := store.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or store", name)
}
