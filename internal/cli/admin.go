package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/domain/parcel"
)

// AdminCmd groups the admin workflows.
func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin workflows (requires the admin role)",
	}
	cmd.AddCommand(adminRidersCmd())
	cmd.AddCommand(adminApproveRiderCmd())
	cmd.AddCommand(adminRejectRiderCmd())
	cmd.AddCommand(adminAssignCmd())
	cmd.AddCommand(adminSearchCmd())
	cmd.AddCommand(adminMakeAdminCmd())
	cmd.AddCommand(adminRemoveAdminCmd())
	return cmd
}

func adminRidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riders",
		Short: "List rider applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := requireRole(cmd, domainauth.RoleAdmin)
			if err != nil {
				return err
			}

			var riders []parcel.Rider
			if active, _ := cmd.Flags().GetBool("active"); active {
				riders, err = h.Riders.Active(cmd.Context())
			} else {
				riders, err = h.Riders.Pending(cmd.Context())
			}
			if err != nil {
				return renderErr(err)
			}
			if len(riders) == 0 {
				fmt.Println("No riders found")
				return nil
			}

			fmt.Printf("\n%-26s %-24s %-14s %-12s %s\n", "ID", "EMAIL", "DISTRICT", "STATUS", "PHONE")
			for _, r := range riders {
				fmt.Printf("%-26s %-24s %-14s %-12s %s\n", r.ID, r.Email, r.District, r.Status, r.Phone)
			}
			return nil
		},
	}
	cmd.Flags().Bool("active", false, "list active riders instead of pending applications")
	return cmd
}

func adminApproveRiderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve-rider [rider-id]",
		Short: "Approve a rider application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleAdmin)
			if err != nil {
				return err
			}
			if err := h.Riders.Approve(cmd.Context(), args[0]); err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s Rider %s approved\n", okMark, args[0])
			return nil
		},
	}
}

func adminRejectRiderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject-rider [rider-id]",
		Short: "Reject a rider application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleAdmin)
			if err != nil {
				return err
			}
			if err := h.Riders.Reject(cmd.Context(), args[0]); err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s Rider %s rejected\n", okMark, args[0])
			return nil
		},
	}
}

func adminAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign [parcel-id]",
		Short: "Assign a rider to a paid parcel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleAdmin)
			if err != nil {
				return err
			}

			riderEmail, _ := cmd.Flags().GetString("rider")
			p, candidates, err := h.Admin.AssignCandidates(cmd.Context(), args[0])
			if err != nil {
				return renderErr(err)
			}

			if riderEmail == "" {
				if len(candidates) == 0 {
					fmt.Printf("No active riders serve the %s district\n", p.SenderCenter)
					return nil
				}
				fmt.Println(heading("Riders serving %s", p.SenderCenter))
				for _, r := range candidates {
					fmt.Printf("  %-24s %s\n", r.Email, r.Name)
				}
				fmt.Println("\nRe-run with --rider to assign one")
				return nil
			}

			for _, r := range candidates {
				if r.Email == riderEmail {
					if err := h.Admin.AssignRider(cmd.Context(), args[0], r); err != nil {
						return renderErr(err)
					}
					fmt.Printf("%s Assigned %s to parcel %s\n", okMark, r.Email, args[0])
					return nil
				}
			}
			return fmt.Errorf("rider %s does not serve the %s district", riderEmail, p.SenderCenter)
		},
	}
	cmd.Flags().String("rider", "", "email of the rider to assign")
	return cmd
}

func adminSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [email-fragment]",
		Short: "Search users by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleAdmin)
			if err != nil {
				return err
			}
			users, err := h.Admin.SearchUsers(cmd.Context(), args[0])
			if err != nil {
				return renderErr(err)
			}
			if len(users) == 0 {
				fmt.Println("No users found")
				return nil
			}
			fmt.Printf("\n%-28s %-28s %s\n", "UID", "EMAIL", "ROLE")
			for _, u := range users {
				fmt.Printf("%-28s %-28s %s\n", u.UID, u.Email, u.Role)
			}
			return nil
		},
	}
}

func adminMakeAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin [user-id]",
		Short: "Grant the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleAdmin)
			if err != nil {
				return err
			}
			if err := h.Admin.GrantAdmin(cmd.Context(), args[0]); err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s %s is now an admin\n", okMark, args[0])
			return nil
		},
	}
}

func adminRemoveAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-admin [user-id]",
		Short: "Revoke the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleAdmin)
			if err != nil {
				return err
			}
			if err := h.Admin.RevokeAdmin(cmd.Context(), args[0]); err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s %s is no longer an admin\n", okMark, args[0])
			return nil
		},
	}
}
