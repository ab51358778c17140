// Package cli provides the command-line interface for the rental client.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"staymate/internal/analytics"
	"staymate/internal/models"
	"staymate/internal/search"
)

// addSearchCommands adds the search command.
func addSearchCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search published listings",
		Long: `Search published listings by text, price, bedrooms and stay window.

With --from and --to, only listings whose published availability fully
contains the requested window are returned; a stay can never straddle two
availability windows.`,
		Example: `  staymate search --text beach
  staymate search --from 2026-09-03 --to 2026-09-07
  staymate search --min-price 50 --max-price 150 --bedrooms 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			filter, err := filterFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			offline, _ := cmd.Flags().GetBool("offline")
			listings, err := fetchListings(ctx, app, offline)
			if err != nil {
				output.Error("Could not fetch listings: %v", err)
				return err
			}

			matched := search.Apply(listings, filter)

			if output.IsJSON() {
				return output.JSON(matched)
			}

			if len(matched) == 0 {
				output.Info("No listings match")
				return nil
			}

			table := NewTable(output, "ID", "Title", "City", "Price/night", "Stay total", "Rating")
			for _, l := range matched {
				stayTotal := "-"
				if filter.Window.Valid() {
					stayTotal = FormatMoney(analytics.StayPrice(l, filter.Window))
				}
				table.AddRow(
					l.ID,
					l.Title,
					l.Address.City,
					FormatMoney(l.Price),
					stayTotal,
					FormatStars(analytics.AverageRating(l.Reviews)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("text", "", "match against title and city")
	cmd.Flags().String("from", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().Float64("min-price", 0, "minimum nightly price")
	cmd.Flags().Float64("max-price", 0, "maximum nightly price")
	cmd.Flags().Int("bedrooms", 0, "minimum number of bedrooms")
	cmd.Flags().Bool("offline", false, "use the local cache instead of the backend")

	rootCmd.AddCommand(cmd)
}

func filterFromFlags(cmd *cobra.Command) (search.Filter, error) {
	text, _ := cmd.Flags().GetString("text")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	maxPrice, _ := cmd.Flags().GetFloat64("max-price")
	bedrooms, _ := cmd.Flags().GetInt("bedrooms")

	filter := search.Filter{
		Text:        text,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		MinBedrooms: bedrooms,
	}

	if from != "" || to != "" {
		window, err := windowFromFlags(cmd)
		if err != nil {
			return search.Filter{}, err
		}
		filter.Window = window
	} else {
		filter.Window = models.DateRange{}
	}

	return filter, nil
}
