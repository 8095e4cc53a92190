// Package config provides configuration management for the trading diary.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database    DatabaseConfig `mapstructure:"database"`
	UI          UIConfig       `mapstructure:"ui"`
	Coach       CoachConfig    `mapstructure:"coach"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	Currency     string `mapstructure:"currency"`
}

// CoachConfig holds AI coach configuration.
type CoachConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	MaxRetries  int     `mapstructure:"max_retries"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trading-diary"
	}
	return filepath.Join(home, ".config", "trading-diary")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(configDir, "diary.db")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// Set defaults
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.currency", "INR")
	v.SetDefault("coach.model", "gpt-4o")
	v.SetDefault("coach.temperature", 0.7)
	v.SetDefault("coach.max_tokens", 2048)
	v.SetDefault("coach.max_retries", 3)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADING_DIARY_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TRADING_DIARY_MODEL"); v != "" {
		cfg.Coach.Model = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Coach.Temperature < 0 || c.Coach.Temperature > 2 {
		return fmt.Errorf("coach temperature must be between 0 and 2")
	}
	if c.Coach.MaxTokens < 0 {
		return fmt.Errorf("coach max_tokens must be non-negative")
	}
	if c.Coach.MaxRetries < 0 {
		return fmt.Errorf("coach max_retries must be non-negative")
	}
	return nil
}

// HasCoachKey returns true if an OpenAI API key is configured.
func (c *Config) HasCoachKey() bool {
	return c.Credentials.OpenAI.APIKey != ""
}
