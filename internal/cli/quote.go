package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profast/parcel-client/internal/domain/pricing"
)

// QuoteCmd prices a hypothetical parcel without booking it.
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a delivery cost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, _ := cmd.Flags().GetString("type")
			weight, _ := cmd.Flags().GetFloat64("weight")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")

			var k pricing.Kind
			switch kind {
			case "document":
				k = pricing.KindDocument
			case "non-document", "parcel":
				k = pricing.KindNonDocument
			default:
				return fmt.Errorf("--type must be document or non-document")
			}
			if k == pricing.KindNonDocument && weight <= 0 {
				return fmt.Errorf("--weight is required for non-document parcels")
			}

			breakdown := pricing.Quote(pricing.ParcelQuote{
				Kind:         k,
				WeightKg:     weight,
				SameDistrict: from != "" && from == to,
			})

			fmt.Println(heading("Quote"))
			fmt.Printf("  Base:  %s\n", breakdown.Base)
			fmt.Printf("  Extra: %s\n", breakdown.Extra)
			fmt.Printf("  Total: %s\n", breakdown.Total)
			fmt.Printf("  %s\n", breakdown.Explanation)
			return nil
		},
	}
	cmd.Flags().String("type", "document", "parcel type: document or non-document")
	cmd.Flags().Float64("weight", 0, "weight in kg (non-document only)")
	cmd.Flags().String("from", "", "pickup district")
	cmd.Flags().String("to", "", "delivery district")
	return cmd
}
