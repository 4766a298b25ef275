package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from environment variables using `env` struct tags.
//
//	type Config struct {
//	    Port           int           `env:"HTTP_PORT" envDefault:"8080"`
//	    CatalogBaseURL string        `env:"CATALOG_BASE_URL"`
//	    SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
