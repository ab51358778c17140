// Package cli provides the command-line interface for the rental client.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"staymate/internal/analytics"
	apperrors "staymate/internal/errors"
	"staymate/internal/models"
	"staymate/pkg/utils"
)

// addBookingCommands adds booking management commands.
func addBookingCommands(rootCmd *cobra.Command, app *App) {
	bookingsCmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage booking requests",
	}

	bookingsCmd.AddCommand(newBookingsListCmd(app))
	bookingsCmd.AddCommand(newBookingsRequestCmd(app))
	bookingsCmd.AddCommand(newBookingsAcceptCmd(app))
	bookingsCmd.AddCommand(newBookingsDeclineCmd(app))
	bookingsCmd.AddCommand(newBookingsCancelCmd(app))

	rootCmd.AddCommand(bookingsCmd)
}

func newBookingsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings",
		Example: `  staymate bookings list
  staymate bookings list --listing l1
  staymate bookings list --status pending`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			listingID, _ := cmd.Flags().GetString("listing")
			status, _ := cmd.Flags().GetString("status")
			offline, _ := cmd.Flags().GetBool("offline")

			bookings, err := fetchBookings(ctx, app, offline)
			if err != nil {
				output.Error("Could not fetch bookings: %v", err)
				return err
			}

			var filtered []models.Booking
			for _, b := range bookings {
				if listingID != "" && b.ListingID != listingID {
					continue
				}
				if status != "" && string(b.Status) != status {
					continue
				}
				filtered = append(filtered, b)
			}

			if output.IsJSON() {
				return output.JSON(filtered)
			}

			if len(filtered) == 0 {
				output.Info("No bookings found")
				return nil
			}

			table := NewTable(output, "ID", "Listing", "Guest", "Dates", "Total", "Status")
			for _, b := range filtered {
				table.AddRow(
					b.ID,
					b.ListingID,
					b.Owner,
					FormatRange(b.DateRange),
					FormatMoney(b.TotalPrice),
					output.ColoredString(output.StatusColor(string(b.Status)), string(b.Status)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("listing", "", "only bookings for this listing")
	cmd.Flags().String("status", "", "only bookings with this status (pending, accepted, declined)")
	cmd.Flags().Bool("offline", false, "use the local cache instead of the backend")
	return cmd
}

// fetchBookings mirrors fetchListings for the booking set.
func fetchBookings(ctx context.Context, app *App, offline bool) ([]models.Booking, error) {
	if offline {
		if app.Store == nil {
			return nil, fmt.Errorf("local store unavailable")
		}
		return app.Store.GetCachedBookings(ctx)
	}

	bookings, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() ([]models.Booking, error) {
		return app.Client.GetBookings(ctx)
	})
	if err != nil {
		return nil, err
	}

	if app.Store != nil {
		if cacheErr := app.Store.CacheBookings(ctx, bookings); cacheErr != nil {
			app.Logger.Warn().Err(cacheErr).Msg("Could not refresh booking cache")
		}
	}
	return bookings, nil
}

func newBookingsRequestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request <listing-id>",
		Short: "Request a stay at a listing",
		Long: `Request a stay. The total price is the listing's nightly price times the
number of nights, unless overridden with --total.`,
		Example: `  staymate bookings request l1 --from 2026-09-03 --to 2026-09-07`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			window, err := windowFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			listing, err := app.Client.GetListing(ctx, args[0])
			if err != nil {
				output.Error("Could not fetch listing: %v", err)
				return err
			}

			total, _ := cmd.Flags().GetFloat64("total")
			if total == 0 {
				total = analytics.StayPrice(*listing, window)
			}

			id, err := app.Client.CreateBooking(ctx, models.BookingRequest{
				ListingID:  args[0],
				DateRange:  window,
				TotalPrice: total,
			})
			if err != nil {
				output.Error("Could not create booking: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"bookingId": id})
			}
			output.Success("Booking %s requested: %s for %s", id, FormatRange(window), FormatMoney(total))
			return nil
		},
	}

	cmd.Flags().String("from", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().Float64("total", 0, "override the computed total price")
	return cmd
}

func windowFromFlags(cmd *cobra.Command) (models.DateRange, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if from == "" || to == "" {
		return models.DateRange{}, fmt.Errorf("both --from and --to are required")
	}

	start, err := models.ParseDate(from)
	if err != nil {
		return models.DateRange{}, err
	}
	end, err := models.ParseDate(to)
	if err != nil {
		return models.DateRange{}, err
	}

	window := models.DateRange{Start: start, End: end}
	if !window.Valid() {
		return models.DateRange{}, fmt.Errorf("%w: check-in must be before check-out", apperrors.ErrInvalidDateRange)
	}
	return window, nil
}

func newBookingsAcceptCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <booking-id>",
		Short: "Accept a pending booking request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Client.AcceptBooking(ctx, args[0]); err != nil {
				output.Error("Could not accept booking: %v", err)
				return err
			}
			output.Success("Booking accepted")
			return nil
		},
	}
}

func newBookingsDeclineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "decline <booking-id>",
		Short: "Decline a pending booking request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Client.DeclineBooking(ctx, args[0]); err != nil {
				output.Error("Could not decline booking: %v", err)
				return err
			}
			output.Success("Booking declined")
			return nil
		},
	}
}

func newBookingsCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel one of your booking requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Client.DeleteBooking(ctx, args[0]); err != nil {
				output.Error("Could not cancel booking: %v", err)
				return err
			}
			output.Success("Booking cancelled")
			return nil
		},
	}
}
