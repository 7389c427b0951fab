package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profast/parcel-client/internal/ports"
)

// PayCmd charges a booked parcel to a card.
func PayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay [parcel-id]",
		Short: "Pay for a parcel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := signedInApp(cmd)
			if err != nil {
				return renderErr(err)
			}
			if app.Payments == nil {
				return fmt.Errorf("payments are not configured: set PAYMENT_PUBLISHABLE_KEY")
			}

			card := ports.Card{}
			card.Number, _ = cmd.Flags().GetString("card")
			card.ExpMonth, _ = cmd.Flags().GetInt("exp-month")
			card.ExpYear, _ = cmd.Flags().GetInt("exp-year")
			card.CVC, _ = cmd.Flags().GetString("cvc")

			sess := app.Session.Snapshot()
			receipt, err := app.Payments.Pay(cmd.Context(), args[0], card, ports.BillingDetails{
				Name:  sess.Identity.DisplayName,
				Email: sess.Email(),
			})
			if err != nil {
				return renderErr(err)
			}

			fmt.Printf("%s Payment complete\n", okMark)
			fmt.Printf("  Amount:      %s\n", receipt.Amount)
			fmt.Printf("  Transaction: %s\n", receipt.TransactionID)
			return nil
		},
	}
	cmd.Flags().String("card", "", "card number")
	cmd.Flags().Int("exp-month", 0, "card expiry month")
	cmd.Flags().Int("exp-year", 0, "card expiry year")
	cmd.Flags().String("cvc", "", "card CVC")
	return cmd
}

// PaymentsCmd lists the caller's payment history.
func PaymentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payments",
		Short: "Show your payment history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := signedInApp(cmd)
			if err != nil {
				return renderErr(err)
			}
			if app.Payments == nil {
				return fmt.Errorf("payments are not configured: set PAYMENT_PUBLISHABLE_KEY")
			}

			history, err := app.Payments.History(cmd.Context(), app.Session.Snapshot().Email())
			if err != nil {
				return renderErr(err)
			}
			if len(history) == 0 {
				fmt.Println("No payments yet")
				return nil
			}

			fmt.Printf("\n%-26s %-10s %-24s %s\n", "PARCEL", "AMOUNT", "TRANSACTION", "PAID AT")
			for _, p := range history {
				fmt.Printf("%-26s %-10.2f %-24s %s\n",
					p.ParcelID, p.Amount, p.TransactionID, p.PaidAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
