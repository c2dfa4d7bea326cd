// Package config loads application configuration from an optional TOML file
// with sensible defaults for every key.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Audio   AudioConfig   `mapstructure:"audio"`
}

// APIConfig contains music catalog client settings.
type APIConfig struct {
	// BaseURL is the catalog API root.
	BaseURL string `mapstructure:"base_url"`

	// PageSize is the search page size; "has more" is inferred as
	// len(results) == PageSize.
	PageSize int `mapstructure:"page_size"`

	// TimeoutSeconds bounds every catalog and transfer HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Timeout returns the HTTP timeout as a time.Duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// StorageConfig contains on-device storage settings.
type StorageConfig struct {
	// DownloadDir is where downloaded songs are kept. Empty means
	// "resolve a platform default at startup"; when no writable location
	// exists, downloads are unsupported.
	DownloadDir string `mapstructure:"download_dir"`
}

// AudioConfig contains audio engine settings.
type AudioConfig struct {
	// UseMock selects the in-memory engine instead of the real decoder.
	UseMock bool `mapstructure:"use_mock"`
}

// DefaultConfig returns a Config with default values for every key.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://saavn.sumit.co",
			PageSize:       20,
			TimeoutSeconds: 30,
		},
		Storage: StorageConfig{
			DownloadDir: "",
		},
		Audio: AudioConfig{
			UseMock: false,
		},
	}
}

// Load reads configuration from config.toml, searched in
// $HOME/.config/sargam/ and the working directory. A missing file is not an
// error; every key has a default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/sargam/")
	v.AddConfigPath(".")

	defaults := DefaultConfig()
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.page_size", defaults.API.PageSize)
	v.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)
	v.SetDefault("storage.download_dir", defaults.Storage.DownloadDir)
	v.SetDefault("audio.use_mock", defaults.Audio.UseMock)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values that have hard constraints.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("api.page_size must be positive, got %d", c.API.PageSize)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	return nil
}
