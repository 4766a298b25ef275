package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/config"
)

// Config holds all configuration for the dashboard service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"DASHBOARD_HTTP_PORT" envDefault:"8080"`

	// Remote product catalog
	CatalogBaseURL    string `env:"CATALOG_BASE_URL" envDefault:"https://dummyjson.com"`
	CatalogTimeoutSec int    `env:"CATALOG_TIMEOUT_SECONDS" envDefault:"30"`
	CatalogFetchLimit int    `env:"CATALOG_FETCH_LIMIT" envDefault:"200"`

	// Search term debounce window in milliseconds
	SearchDebounceMS int `env:"SEARCH_DEBOUNCE_MS" envDefault:"300"`

	// Redis (wishlist persistence)
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass   string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`
	WishlistKey string `env:"WISHLIST_KEY" envDefault:"wishlists"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof access (CIDR allowlist; empty = disabled)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load dashboard config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CatalogTimeout returns the catalog client timeout as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSec) * time.Second
}

// SearchDebounce returns the search debounce window as a duration.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.CatalogFetchLimit < 1 {
		return fmt.Errorf("CATALOG_FETCH_LIMIT must be positive: %d", c.CatalogFetchLimit)
	}
	if c.SearchDebounceMS < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must not be negative: %d", c.SearchDebounceMS)
	}
	if c.WishlistKey == "" {
		return fmt.Errorf("WISHLIST_KEY is required")
	}
	if c.OTELSampleRate < 0.0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0: %g", c.OTELSampleRate)
	}
	return nil
}
