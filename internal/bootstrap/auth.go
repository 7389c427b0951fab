package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/profast/parcel-client/config"
	"github.com/profast/parcel-client/internal/adapters/devidp"
	"github.com/profast/parcel-client/internal/adapters/oidcidp"
	"github.com/profast/parcel-client/internal/ports"
)

// BuildIdentityProvider creates the identity provider selected by AUTH_MODE.
//
//nolint:ireturn // Provider selection is the whole point here.
func BuildIdentityProvider(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (ports.IdentityProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		logger.Warn("using mock identity provider; do not use in production",
			"email", cfg.DevAuth.Email)
		return devidp.NewProvider(devidp.Config{
			UID:         cfg.DevAuth.UID,
			Email:       cfg.DevAuth.Email,
			DisplayName: cfg.DevAuth.DisplayName,
			Password:    cfg.DevAuth.Password,
		})

	case config.AuthModeOAuth:
		return oidcidp.NewProvider(ctx, oidcidp.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scope:        cfg.OAuth.Scope,
			DiscoveryURL: cfg.OAuth.DiscoveryURL,
			AccountsURL:  cfg.OAuth.AccountsURL,
		})

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
