package config

// Config represents the complete configuration structure
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig selects the SRU endpoint and its connection settings
type CatalogConfig struct {
	// Profile is the name of a predefined catalog profile.
	Profile string `mapstructure:"profile"`
	// URL overrides the profile with a custom SRU endpoint.
	URL string `mapstructure:"url"`
	// APIKey is sent as a bearer token when set.
	APIKey string `mapstructure:"api_key"`
	// TimeoutSeconds is the per-request timeout ceiling.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RateLimit caps requests per second; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// SearchConfig contains search defaults
type SearchConfig struct {
	MaxRecords int    `mapstructure:"max_records"`
	Format     string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
