package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// CoverageCmd shows the districts the delivery network serves.
func CoverageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Show delivery coverage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if query, _ := cmd.Flags().GetString("search"); query != "" {
				c, ok := app.Centers.Search(query)
				if !ok {
					return fmt.Errorf("no service center matches %q", query)
				}
				fmt.Println(heading("%s (%s region)", c.District, c.Region))
				fmt.Printf("  Covered areas: %s\n", strings.Join(c.CoveredAreas, ", "))
				fmt.Printf("  Location:      %.4f, %.4f\n", c.Latitude, c.Longitude)
				return nil
			}

			fmt.Println(heading("We deliver in %d districts", app.Centers.Len()))
			for _, region := range app.Centers.Regions() {
				fmt.Printf("\n%s\n", region)
				fmt.Printf("  %s\n", strings.Join(app.Centers.DistrictsByRegion(region), ", "))
			}
			return nil
		},
	}
	cmd.Flags().String("search", "", "look up a district")
	return cmd
}
