// Package cli provides the command-line interface for the rental client.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"staymate/internal/analytics"
	"staymate/internal/models"
)

// addAnalyticsCommands adds the profit command.
func addAnalyticsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "profit",
		Short: "Show booking profit analytics",
		Long: `Show the daily profit series for the past 31 days, derived from accepted
bookings: each booking's total price is spread evenly across its nights.

With --year, also show how many nights were booked and how much was earned
in that calendar year.`,
		Example: `  staymate profit
  staymate profit --listing l1
  staymate profit --year 2026`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			listingID, _ := cmd.Flags().GetString("listing")
			year, _ := cmd.Flags().GetInt("year")
			asOfSpec, _ := cmd.Flags().GetString("as-of")

			asOf := models.Today()
			if asOfSpec != "" {
				parsed, err := models.ParseDate(asOfSpec)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				asOf = parsed
			}

			bookings, err := fetchBookings(ctx, app, false)
			if err != nil {
				output.Error("Could not fetch bookings: %v", err)
				return err
			}

			if listingID != "" {
				var scoped []models.Booking
				for _, b := range bookings {
					if b.ListingID == listingID {
						scoped = append(scoped, b)
					}
				}
				bookings = scoped
			}

			series := analytics.DailyProfitSeries(bookings, asOf)
			total := analytics.TotalProfit(series)

			if output.IsJSON() {
				payload := map[string]interface{}{
					"series":      series,
					"totalProfit": total,
				}
				if year > 0 {
					payload["year"] = year
					payload["daysBooked"] = analytics.DaysBookedInYear(bookings, year)
					payload["yearProfit"] = analytics.ProfitInYear(bookings, year)
				}
				return output.JSON(payload)
			}

			output.Bold("Profit - last %d days", analytics.SeriesDays)
			output.Printf("Total: %s\n\n", FormatMoney(total))

			table := NewTable(output, "Days ago", "Date", "Profit")
			for _, point := range series {
				profit := FormatMoney(point.Profit)
				if point.Profit > 0 {
					profit = output.Green(profit)
				}
				table.AddRow(fmt.Sprintf("%d", point.DaysAgo), point.Date.String(), profit)
			}
			table.Render()

			if year > 0 {
				output.Println()
				output.Bold("Year %d", year)
				output.Printf("  Nights booked: %d\n", analytics.DaysBookedInYear(bookings, year))
				output.Printf("  Profit: %s\n", FormatMoney(analytics.ProfitInYear(bookings, year)))
			}
			return nil
		},
	}

	cmd.Flags().String("listing", "", "restrict to one listing")
	cmd.Flags().Int("year", 0, "also show stats for this calendar year")
	cmd.Flags().String("as-of", "", "anchor date for the series (default: today)")

	rootCmd.AddCommand(cmd)
}
