package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Identity provider configuration
//   - api.go: Backend API configuration
//   - payment.go: Card gateway configuration
type AppConfig struct {
	// IsDev controls development mode behavior (mock auth defaults, verbose
	// logging). Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Auth is the identity provider configuration.
	Auth AuthConfig

	// API is the parcel backend configuration.
	API APIConfig

	// Payment is the card gateway configuration.
	Payment PaymentConfig

	// ServiceCentersPath optionally overrides the embedded coverage dataset.
	ServiceCentersPath string `env:"SERVICE_CENTERS_PATH"`

	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Payment.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	if strings.EqualFold(os.Getenv("NODE_ENV"), "development") {
		c.IsDev = true
	}
}
