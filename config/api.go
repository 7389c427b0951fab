package config

import "time"

// APIConfig contains parcel backend configuration.
type APIConfig struct {
	// BaseURL is the backend API root.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000"`

	// Timeout bounds every backend request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	if a.Timeout <= 0 {
		a.Timeout = 30 * time.Second
	}
}
