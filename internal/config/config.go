// Package config provides configuration management for the option
// analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Fees        FeeConfig      `mapstructure:"fees"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// AnalysisConfig holds payoff analysis defaults.
type AnalysisConfig struct {
	PriceRange      float64 `mapstructure:"price_range"`       // half-width of the payoff domain around the strike
	TickSize        float64 `mapstructure:"tick_size"`         // payoff curve sampling interval
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds"` // derived value lifetime, 0 = default
}

// FeeConfig holds the commission schedule.
type FeeConfig struct {
	Base   float64 `mapstructure:"base"`
	PerLeg float64 `mapstructure:"per_leg"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// Credentials holds brokerage API credentials.
type Credentials struct {
	TradeKing TradeKingCredentials `mapstructure:"tradeking"`
}

// TradeKingCredentials holds the OAuth1 token set for the TradeKing API.
type TradeKingCredentials struct {
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
	OAuthToken     string `mapstructure:"oauth_token"`
	OAuthSecret    string `mapstructure:"oauth_secret"`
}

// Configured reports whether a complete token set is present.
func (c TradeKingCredentials) Configured() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.OAuthToken != "" && c.OAuthSecret != ""
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradeking-trader"
	}
	return filepath.Join(home, ".config", "tradeking-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("analysis.price_range", 20.0)
	v.SetDefault("analysis.tick_size", 0.01)
	v.SetDefault("analysis.cache_ttl_seconds", 300)
	v.SetDefault("fees.base", 4.95)
	v.SetDefault("fees.per_leg", 0.65)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Missing file is fine, defaults apply.
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
			return nil
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEKING_CONSUMER_KEY"); v != "" {
		cfg.Credentials.TradeKing.ConsumerKey = v
	}
	if v := os.Getenv("TRADEKING_CONSUMER_SECRET"); v != "" {
		cfg.Credentials.TradeKing.ConsumerSecret = v
	}
	if v := os.Getenv("TRADEKING_OAUTH_TOKEN"); v != "" {
		cfg.Credentials.TradeKing.OAuthToken = v
	}
	if v := os.Getenv("TRADEKING_OAUTH_SECRET"); v != "" {
		cfg.Credentials.TradeKing.OAuthSecret = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.PriceRange <= 0 {
		return fmt.Errorf("analysis.price_range must be positive")
	}
	if c.Analysis.TickSize <= 0 {
		return fmt.Errorf("analysis.tick_size must be positive")
	}
	if c.Analysis.CacheTTLSeconds < 0 {
		return fmt.Errorf("analysis.cache_ttl_seconds must be non-negative")
	}
	if c.Fees.Base < 0 || c.Fees.PerLeg < 0 {
		return fmt.Errorf("fee amounts must be non-negative")
	}
	return nil
}
