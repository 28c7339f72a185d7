package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - harvest.go: Harvest API client configuration
//   - logging.go: Log level and format
//   - observability.go: Metrics configuration
type AppConfig struct {
	// APIToken is the Harvest API key, sent as the basic auth user name.
	APIToken string `env:"API_TOKEN"`

	// CacheDir is the root of the file cache. It must already exist.
	CacheDir string `env:"CACHE_DIR"`

	// Harvest API client configuration
	Harvest HarvestConfig

	// Logging configuration
	Log LogConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.APIToken = strings.TrimSpace(c.APIToken)
	c.CacheDir = strings.TrimSpace(c.CacheDir)

	c.Harvest.Sanitize()
	c.Log.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports every missing or unusable required value.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.APIToken == "" {
		errs = append(errs, errors.New("API_TOKEN is required"))
	}
	switch info, err := os.Stat(c.CacheDir); {
	case c.CacheDir == "":
		errs = append(errs, errors.New("CACHE_DIR is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("CACHE_DIR %q: %w", c.CacheDir, err))
	case !info.IsDir():
		errs = append(errs, fmt.Errorf("CACHE_DIR %q is not a directory", c.CacheDir))
	}
	return errors.Join(errs...)
}
