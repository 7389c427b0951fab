package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
)

// LoginCmd signs in with a password credential or the provider-hosted flow.
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Profast",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			federated, _ := cmd.Flags().GetBool("google")
			var sess domainauth.Session
			if federated {
				sess, err = app.Session.SignInInteractive(cmd.Context())
			} else {
				email, _ := cmd.Flags().GetString("email")
				password, _ := cmd.Flags().GetString("password")
				if email == "" {
					return fmt.Errorf("--email is required (or use --google)")
				}
				sess, err = app.Session.SignIn(cmd.Context(), email, password)
			}
			if err != nil {
				return renderErr(err)
			}

			fmt.Printf("%s Signed in as %s (%s)\n", okMark, sess.Email(), sess.Role)
			if sess.Status == domainauth.StatusError {
				color.Yellow("role lookup failed; continuing with the %s role", sess.Role)
			}
			return nil
		},
	}
	cmd.Flags().Bool("google", false, "use the provider-hosted federated sign-in")
	return cmd
}

// LogoutCmd signs the current session out.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := app.Session.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("%s Signed out\n", okMark)
			return nil
		},
	}
}

// WhoamiCmd prints the current session.
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			sess := app.Session.Snapshot()
			if !sess.SignedIn() {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Println(heading("Session"))
			fmt.Printf("  Email:  %s\n", sess.Email())
			fmt.Printf("  Name:   %s\n", sess.Identity.DisplayName)
			fmt.Printf("  Role:   %s\n", sess.Role)
			fmt.Printf("  Status: %s\n", sess.Status)
			return nil
		},
	}
}
