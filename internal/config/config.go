// Package config provides configuration management for the rental client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "staymate/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	API           APIConfig          `mapstructure:"api"`
	Polling       PollingConfig      `mapstructure:"polling"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	UI            UIConfig           `mapstructure:"ui"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// APIConfig holds rental backend connection settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PollingConfig holds booking-poll settings for live notifications.
type PollingConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// NotificationConfig holds notification delivery configuration.
type NotificationConfig struct {
	Level   string        `mapstructure:"level"` // all, requests_only, none
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/staymate"
	}
	return filepath.Join(home, ".config", "staymate")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// Missing file is fine, defaults apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5005")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("polling.enabled", true)
	v.SetDefault("polling.interval", 30*time.Second)
	v.SetDefault("notifications.level", "all")
	v.SetDefault("notifications.webhook.enabled", false)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STAYMATE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STAYMATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration. Failures wrap ErrConfigInvalid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url must not be empty", apperrors.ErrConfigInvalid)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", apperrors.ErrConfigInvalid)
	}
	if c.Polling.Interval < time.Second {
		return fmt.Errorf("%w: polling.interval must be at least 1s", apperrors.ErrConfigInvalid)
	}
	switch c.Notifications.Level {
	case "all", "requests_only", "none":
	default:
		return fmt.Errorf("%w: notifications.level %q (must be 'all', 'requests_only' or 'none')", apperrors.ErrConfigInvalid, c.Notifications.Level)
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return fmt.Errorf("%w: notifications.webhook.url required when webhook is enabled", apperrors.ErrConfigInvalid)
	}
	return nil
}

// SessionPath returns the path of the persisted login session.
func SessionPath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "session.json")
}

// DatabasePath returns the path of the local SQLite database.
func DatabasePath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "staymate.db")
}
