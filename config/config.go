package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/jvanvinkenroye/swb/profiles"
	"github.com/jvanvinkenroye/swb/sru"
)

// Load loads the configuration from file. A missing config file is not an
// error; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".swb"))
		}

		// Check /etc
		v.AddConfigPath("/etc/swb/")
	}

	// Read config file. A missing file in the search path is fine; an
	// explicitly named file must exist and be readable.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("catalog.profile", profiles.DefaultProfile)
	v.SetDefault("catalog.timeout_seconds", 30)
	v.SetDefault("catalog.rate_limit", 0)

	// Search defaults
	v.SetDefault("search.max_records", sru.DefaultMaximumRecords)
	v.SetDefault("search.format", sru.FormatMARCXML.String())

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Catalog.Profile == "" && cfg.Catalog.URL == "" {
		return fmt.Errorf("either catalog.profile or catalog.url is required")
	}

	if cfg.Catalog.Profile != "" && cfg.Catalog.URL == "" {
		if _, err := profiles.Get(cfg.Catalog.Profile); err != nil {
			return fmt.Errorf("invalid catalog.profile: %w", err)
		}
	}

	if cfg.Catalog.TimeoutSeconds <= 0 {
		return fmt.Errorf("catalog.timeout_seconds must be positive")
	}

	if cfg.Catalog.RateLimit < 0 {
		return fmt.Errorf("catalog.rate_limit must not be negative")
	}

	if cfg.Search.MaxRecords <= 0 {
		return fmt.Errorf("search.max_records must be positive")
	}

	if !sru.RecordFormat(cfg.Search.Format).Valid() {
		return fmt.Errorf("invalid search.format: %s", cfg.Search.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
