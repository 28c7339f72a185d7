package config

import (
	"strings"
	"time"
)

const (
	defaultHarvestBaseURL = "https://harvest.greenhouse.io/v1/"
	defaultHarvestPerPage = 100
	maxHarvestPerPage     = 500
	defaultHarvestTimeout = 60 * time.Second
)

// HarvestConfig contains Harvest API client configuration.
type HarvestConfig struct {
	// BaseURL is the API root every resource path is resolved against.
	BaseURL string `env:"HARVEST_BASE_URL" envDefault:"https://harvest.greenhouse.io/v1/"`

	// PerPage is the page size requested from list endpoints (1-500).
	// The index is flushed once per page worth of records.
	PerPage int `env:"HARVEST_PER_PAGE" envDefault:"100"`

	// Timeout bounds each HTTP request, attachment downloads included.
	Timeout time.Duration `env:"HARVEST_TIMEOUT" envDefault:"60s"`
}

// Sanitize applies guardrails to Harvest configuration values.
func (h *HarvestConfig) Sanitize() {
	if h.BaseURL = strings.TrimSpace(h.BaseURL); h.BaseURL == "" {
		h.BaseURL = defaultHarvestBaseURL
	}
	if !strings.HasSuffix(h.BaseURL, "/") {
		h.BaseURL += "/"
	}

	// Clamp page size to what the API accepts
	if h.PerPage < 1 {
		h.PerPage = defaultHarvestPerPage
	}
	if h.PerPage > maxHarvestPerPage {
		h.PerPage = maxHarvestPerPage
	}

	if h.Timeout <= 0 {
		h.Timeout = defaultHarvestTimeout
	}
}
