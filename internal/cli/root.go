// Package cli implements the profast command tree. Commands build the
// application graph lazily on first use, sign in with the --email/--password
// flags (or PROFAST_EMAIL / PROFAST_PASSWORD), and consult the session
// guard before role-gated operations.
package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/profast/parcel-client/internal/bootstrap"
	apperrors "github.com/profast/parcel-client/internal/errors"
)

var (
	buildOnce sync.Once
	builtApp  *bootstrap.App
	buildErr  error
)

// RootCmd assembles the profast command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profast",
		Short: "Profast - parcel delivery booking client",
		Long: `Profast books parcel deliveries, quotes delivery costs, pays for
bookings, and runs the rider and admin workflows against the Profast backend.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("email", "", "account email (or PROFAST_EMAIL)")
	root.PersistentFlags().String("password", "", "account password (or PROFAST_PASSWORD)")

	root.AddCommand(LoginCmd())
	root.AddCommand(LogoutCmd())
	root.AddCommand(WhoamiCmd())
	root.AddCommand(QuoteCmd())
	root.AddCommand(ParcelCmd())
	root.AddCommand(PayCmd())
	root.AddCommand(PaymentsCmd())
	root.AddCommand(RiderCmd())
	root.AddCommand(AdminCmd())
	root.AddCommand(CoverageCmd())
	return root
}

// getApp builds the application graph once per process.
func getApp(cmd *cobra.Command) (*bootstrap.App, error) {
	buildOnce.Do(func() {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			buildErr = err
			return
		}
		logger := bootstrap.InitLogger(cfg.LogLevel)
		builtApp, buildErr = bootstrap.Build(cmd.Context(), cfg, logger)
		if buildErr == nil {
			builtApp.Session.Start(cmd.Context())
		}
	})
	return builtApp, buildErr
}

// signedInApp returns the app with a signed-in session, performing a
// password sign-in from flags or environment when needed.
func signedInApp(cmd *cobra.Command) (*bootstrap.App, error) {
	app, err := getApp(cmd)
	if err != nil {
		return nil, err
	}
	if app.Session.Snapshot().SignedIn() {
		return app, nil
	}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if email == "" {
		email = os.Getenv("PROFAST_EMAIL")
	}
	if password == "" {
		password = os.Getenv("PROFAST_PASSWORD")
	}
	if email == "" {
		return nil, apperrors.Unauthenticated(
			"sign in required: pass --email/--password or set PROFAST_EMAIL and PROFAST_PASSWORD")
	}

	if _, err := app.Session.SignIn(cmd.Context(), email, password); err != nil {
		return nil, err
	}
	return app, nil
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	heading  = color.New(color.Bold).Sprintf
)

// renderErr maps application errors to the short messages the CLI prints.
func renderErr(err error) error {
	switch {
	case apperrors.IsForbidden(err):
		return fmt.Errorf("%s %v", failMark, err)
	case apperrors.IsUnauthenticated(err):
		return fmt.Errorf("%s %v", failMark, err)
	default:
		return err
	}
}
