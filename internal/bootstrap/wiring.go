package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/profast/parcel-client/config"
	"github.com/profast/parcel-client/internal/adapters/cardgw"
	"github.com/profast/parcel-client/internal/adapters/restapi"
	"github.com/profast/parcel-client/internal/coverage"
	"github.com/profast/parcel-client/internal/service"
	"github.com/profast/parcel-client/internal/session"
)

// App holds the wired application graph.
type App struct {
	Config   config.AppConfig
	Logger   *slog.Logger
	API      *restapi.Client
	Session  *session.Manager
	Centers  *coverage.Dataset
	Bookings *service.BookingService
	Payments *service.PaymentService
	Riders   *service.RiderService
	Admin    *service.AdminService
}

// Build wires the full application. The backend client and the session
// manager reference each other (the client pulls bearer tokens from the
// session; a backend 401 forces the session out), so the manager pointer is
// captured by closure before it exists.
func Build(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	centers, err := loadCenters(cfg)
	if err != nil {
		return nil, err
	}

	var mgr *session.Manager
	api, err := restapi.New(restapi.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
		Tokens: func(ctx context.Context) (string, error) {
			if mgr == nil {
				return "", nil
			}
			return mgr.Token(ctx)
		},
		OnUnauthorized: func() {
			if mgr != nil {
				mgr.ForceSignOut(context.Background())
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}

	provider, err := BuildIdentityProvider(ctx, cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("build identity provider: %w", err)
	}

	mgr = session.NewManager(session.Options{
		Provider:    provider,
		Roles:       api,
		Users:       api,
		Invalidator: api,
		Logger:      logger,
	})

	app := &App{
		Config:  cfg,
		Logger:  logger,
		API:     api,
		Session: mgr,
		Centers: centers,
		Bookings: service.NewBookingService(service.BookingServiceOptions{
			Parcels: api,
			Centers: centers,
			Logger:  logger,
		}),
		Riders: service.NewRiderService(service.RiderServiceOptions{
			Riders: api,
			Logger: logger,
		}),
		Admin: service.NewAdminService(service.AdminServiceOptions{
			Admin:   api,
			Riders:  api,
			Parcels: api,
		}, logger),
	}

	// The gateway key is optional; without it the pay command reports that
	// payments are not configured instead of failing at startup.
	if cfg.Payment.PublishableKey != "" {
		processor, perr := cardgw.New(cardgw.Options{
			BaseURL:        cfg.Payment.GatewayURL,
			PublishableKey: cfg.Payment.PublishableKey,
			Timeout:        cfg.Payment.Timeout,
			Logger:         logger,
		})
		if perr != nil {
			return nil, fmt.Errorf("build card gateway: %w", perr)
		}
		app.Payments = service.NewPaymentService(service.PaymentServiceOptions{
			Parcels:   api,
			Payments:  api,
			Processor: processor,
		}, logger)
	}

	return app, nil
}

func loadCenters(cfg config.AppConfig) (*coverage.Dataset, error) {
	if cfg.ServiceCentersPath != "" {
		d, err := coverage.LoadFile(cfg.ServiceCentersPath)
		if err != nil {
			return nil, fmt.Errorf("load service centers: %w", err)
		}
		return d, nil
	}
	return coverage.Default()
}
