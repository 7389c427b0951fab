package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profast/parcel-client/internal/bootstrap"
	domainauth "github.com/profast/parcel-client/internal/domain/auth"
	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/service"
)

// RiderCmd groups the rider workflows.
func RiderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rider",
		Short: "Rider application and delivery workflows",
	}
	cmd.AddCommand(riderApplyCmd())
	cmd.AddCommand(riderDeliveriesCmd())
	cmd.AddCommand(riderAdvanceCmd())
	cmd.AddCommand(riderEarningsCmd())
	cmd.AddCommand(riderCashoutCmd())
	return cmd
}

func riderApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to become a rider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := signedInApp(cmd)
			if err != nil {
				return renderErr(err)
			}

			sess := app.Session.Snapshot()
			app2 := parcel.Rider{
				Name:  sess.Identity.DisplayName,
				Email: sess.Email(),
			}
			app2.Region, _ = cmd.Flags().GetString("region")
			app2.District, _ = cmd.Flags().GetString("district")
			app2.Phone, _ = cmd.Flags().GetString("phone")
			app2.NID, _ = cmd.Flags().GetString("nid")
			app2.Age, _ = cmd.Flags().GetInt("age")
			app2.BikeBrand, _ = cmd.Flags().GetString("bike-brand")
			app2.BikeRegNo, _ = cmd.Flags().GetString("bike-reg")

			id, err := app.Riders.Apply(cmd.Context(), app2)
			if err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s Application submitted (%s); an admin will review it\n", okMark, id)
			return nil
		},
	}
	cmd.Flags().String("region", "", "region you will serve")
	cmd.Flags().String("district", "", "district you will serve")
	cmd.Flags().String("phone", "", "contact phone")
	cmd.Flags().String("nid", "", "national ID number")
	cmd.Flags().Int("age", 0, "age")
	cmd.Flags().String("bike-brand", "", "bike brand")
	cmd.Flags().String("bike-reg", "", "bike registration number")
	return cmd
}

// requireRole signs in and checks the cached role before a gated command.
func requireRole(cmd *cobra.Command, role domainauth.Role) (*bootstrap.App, error) {
	app, err := signedInApp(cmd)
	if err != nil {
		return nil, renderErr(err)
	}
	if err := app.Session.Require(role); err != nil {
		return nil, renderErr(err)
	}
	return app, nil
}

func riderDeliveriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliveries",
		Short: "List your assigned deliveries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := requireRole(cmd, domainauth.RoleRider)
			if err != nil {
				return err
			}
			parcels, err := h.Riders.Deliveries(cmd.Context(), h.Session.Snapshot().Email())
			if err != nil {
				return renderErr(err)
			}
			if len(parcels) == 0 {
				fmt.Println("No deliveries assigned")
				return nil
			}
			fmt.Printf("\n%-26s %-22s %-14s %s\n", "ID", "TRACKING", "STATUS", "RECEIVER")
			for _, p := range parcels {
				fmt.Printf("%-26s %-22s %-14s %s, %s\n",
					p.ID, p.TrackingID, p.DeliveryStatus, p.ReceiverName, p.ReceiverCenter)
			}
			return nil
		},
	}
}

func riderAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance [parcel-id]",
		Short: "Advance a delivery one step (picked up, delivered)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleRider)
			if err != nil {
				return err
			}
			p, err := h.API.Parcel(cmd.Context(), args[0])
			if err != nil {
				return renderErr(err)
			}
			next, err := h.Riders.AdvanceDelivery(cmd.Context(), p)
			if err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s Parcel %s is now %s\n", okMark, args[0], next)
			return nil
		},
	}
}

func riderEarningsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "earnings",
		Short: "Show your completed deliveries and earnings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := requireRole(cmd, domainauth.RoleRider)
			if err != nil {
				return err
			}
			sum, err := h.Riders.Earnings(cmd.Context(), h.Session.Snapshot().Email())
			if err != nil {
				return renderErr(err)
			}

			if len(sum.Delivered) > 0 {
				fmt.Printf("\n%-26s %-10s %-10s %s\n", "ID", "COST", "EARNING", "CASHOUT")
				for _, p := range sum.Delivered {
					cashout := "pending"
					if p.CashoutStatus == parcel.CashoutDone {
						cashout = "done"
					}
					fmt.Printf("%-26s %-10.2f %-10s %s\n", p.ID, p.Cost, service.Earning(p), cashout)
				}
			}
			fmt.Println(heading("Earnings"))
			fmt.Printf("  Total:       %s\n", sum.Total)
			fmt.Printf("  Cashed out:  %s\n", sum.CashedOut)
			fmt.Printf("  Outstanding: %s\n", sum.Outstanding)
			return nil
		},
	}
}

func riderCashoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cashout [parcel-id]",
		Short: "Cash out a delivered parcel's earning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := requireRole(cmd, domainauth.RoleRider)
			if err != nil {
				return err
			}
			p, err := h.API.Parcel(cmd.Context(), args[0])
			if err != nil {
				return renderErr(err)
			}
			if err := h.Riders.CashOut(cmd.Context(), p); err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s Cashed out %s\n", okMark, service.Earning(p))
			return nil
		},
	}
}
