package config

import "time"

// PaymentConfig contains card gateway configuration.
type PaymentConfig struct {
	// GatewayURL is the card gateway API root.
	GatewayURL string `env:"PAYMENT_GATEWAY_URL" envDefault:"https://api.stripe.com/v1"`

	// PublishableKey authenticates client-side gateway calls.
	PublishableKey string `env:"PAYMENT_PUBLISHABLE_KEY"`

	// Timeout bounds every gateway request.
	Timeout time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to payment configuration values.
func (p *PaymentConfig) Sanitize() {
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
}
