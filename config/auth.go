package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the identity provider mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses the OIDC identity provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses the config-driven dev provider (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OIDC identity provider configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8910/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// AccountsURL is the provider's account-management endpoint, used for
	// the compensating account deletion after a failed registration.
	AccountsURL string `env:"ACCOUNTS_URL"`
}

// DevAuthConfig controls the mock identity used when AUTH_MODE=mock.
type DevAuthConfig struct {
	UID         string `env:"UID"          envDefault:"dev-user"`
	Email       string `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Password    string `env:"PASSWORD"`
}

// AuthConfig groups all identity-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}
