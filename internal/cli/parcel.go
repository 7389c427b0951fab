package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profast/parcel-client/internal/domain/parcel"
	"github.com/profast/parcel-client/internal/domain/pricing"
)

// ParcelCmd groups booking operations.
func ParcelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parcel",
		Short: "Book and manage parcels",
	}
	cmd.AddCommand(parcelAddCmd())
	cmd.AddCommand(parcelListCmd())
	cmd.AddCommand(parcelTrackCmd())
	cmd.AddCommand(parcelDeleteCmd())
	return cmd
}

func parcelAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Book a new parcel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := signedInApp(cmd)
			if err != nil {
				return renderErr(err)
			}

			draft, err := draftFromFlags(cmd)
			if err != nil {
				return err
			}

			booked, err := app.Bookings.Book(cmd.Context(), app.Session.Snapshot().Email(), draft)
			if err != nil {
				return renderErr(err)
			}

			fmt.Printf("%s Parcel booked\n", okMark)
			fmt.Printf("  ID:       %s\n", booked.ID)
			fmt.Printf("  Tracking: %s\n", booked.TrackingID)
			fmt.Printf("  Cost:     %s (%s)\n", booked.Cost.Total, booked.Cost.Explanation)
			return nil
		},
	}
	cmd.Flags().String("title", "", "what is being sent")
	cmd.Flags().String("type", "document", "document or non-document")
	cmd.Flags().Float64("weight", 0, "weight in kg (non-document only)")
	cmd.Flags().String("sender-name", "", "sender name")
	cmd.Flags().String("sender-contact", "", "sender phone")
	cmd.Flags().String("sender-region", "", "sender region")
	cmd.Flags().String("sender-district", "", "pickup district")
	cmd.Flags().String("sender-address", "", "pickup address")
	cmd.Flags().String("receiver-name", "", "receiver name")
	cmd.Flags().String("receiver-contact", "", "receiver phone")
	cmd.Flags().String("receiver-region", "", "receiver region")
	cmd.Flags().String("receiver-district", "", "delivery district")
	cmd.Flags().String("receiver-address", "", "delivery address")
	cmd.Flags().String("pickup-note", "", "pickup instruction")
	cmd.Flags().String("delivery-note", "", "delivery instruction")
	return cmd
}

func draftFromFlags(cmd *cobra.Command) (parcel.Parcel, error) {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	weight, _ := cmd.Flags().GetFloat64("weight")

	kind := pricing.Kind(str("type"))
	if kind != pricing.KindDocument && kind != pricing.KindNonDocument {
		return parcel.Parcel{}, fmt.Errorf("--type must be document or non-document")
	}

	return parcel.Parcel{
		Title:               str("title"),
		Kind:                kind,
		WeightKg:            weight,
		SenderName:          str("sender-name"),
		SenderContact:       str("sender-contact"),
		SenderRegion:        str("sender-region"),
		SenderCenter:        str("sender-district"),
		SenderAddress:       str("sender-address"),
		ReceiverName:        str("receiver-name"),
		ReceiverContact:     str("receiver-contact"),
		ReceiverRegion:      str("receiver-region"),
		ReceiverCenter:      str("receiver-district"),
		ReceiverAddress:     str("receiver-address"),
		PickupInstruction:   str("pickup-note"),
		DeliveryInstruction: str("delivery-note"),
	}, nil
}

func parcelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your parcels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := signedInApp(cmd)
			if err != nil {
				return renderErr(err)
			}

			parcels, err := app.Bookings.MyParcels(cmd.Context(), app.Session.Snapshot().Email())
			if err != nil {
				return renderErr(err)
			}
			if len(parcels) == 0 {
				fmt.Println("No parcels yet")
				return nil
			}

			fmt.Printf("\n%-26s %-22s %-8s %-10s %s\n", "ID", "TRACKING", "COST", "PAYMENT", "DELIVERY")
			for _, p := range parcels {
				fmt.Printf("%-26s %-22s %-8.2f %-10s %s\n",
					p.ID, p.TrackingID, p.Cost, p.PaymentStatus, p.DeliveryStatus)
			}
			return nil
		},
	}
}

func parcelTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track [tracking-id]",
		Short: "Show a parcel's delivery history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			events, err := app.Bookings.Track(cmd.Context(), args[0])
			if err != nil {
				return renderErr(err)
			}
			if len(events) == 0 {
				fmt.Println("No tracking history yet")
				return nil
			}

			fmt.Println(heading("Tracking %s", args[0]))
			for _, e := range events {
				fmt.Printf("  %s  %-16s %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Status, e.Details)
			}
			return nil
		},
	}
}

func parcelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [parcel-id]",
		Short: "Cancel an unpaid parcel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := signedInApp(cmd)
			if err != nil {
				return renderErr(err)
			}
			if err := app.Bookings.Cancel(cmd.Context(), args[0]); err != nil {
				return renderErr(err)
			}
			fmt.Printf("%s Parcel %s cancelled\n", okMark, args[0])
			return nil
		},
	}
}
