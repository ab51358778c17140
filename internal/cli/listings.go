// Package cli provides the command-line interface for the rental client.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"staymate/internal/analytics"
	"staymate/internal/models"
	"staymate/pkg/utils"
)

// addListingCommands adds listing management commands.
func addListingCommands(rootCmd *cobra.Command, app *App) {
	listingsCmd := &cobra.Command{
		Use:   "listings",
		Short: "Manage rental listings",
	}

	listingsCmd.AddCommand(newListingsListCmd(app))
	listingsCmd.AddCommand(newListingsGetCmd(app))
	listingsCmd.AddCommand(newListingsCreateCmd(app))
	listingsCmd.AddCommand(newListingsUpdateCmd(app))
	listingsCmd.AddCommand(newListingsDeleteCmd(app))
	listingsCmd.AddCommand(newListingsPublishCmd(app))
	listingsCmd.AddCommand(newListingsUnpublishCmd(app))
	listingsCmd.AddCommand(newListingsReviewCmd(app))

	rootCmd.AddCommand(listingsCmd)
}

func newListingsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all listings",
		Example: `  staymate listings list
  staymate listings list --mine
  staymate listings list --offline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			mine, _ := cmd.Flags().GetBool("mine")
			offline, _ := cmd.Flags().GetBool("offline")

			listings, err := fetchListings(ctx, app, offline)
			if err != nil {
				output.Error("Could not fetch listings: %v", err)
				return err
			}

			if mine {
				email := app.Client.Email()
				var own []models.Listing
				for _, l := range listings {
					if l.Owner == email {
						own = append(own, l)
					}
				}
				listings = own
			}

			if output.IsJSON() {
				return output.JSON(listings)
			}

			if len(listings) == 0 {
				output.Info("No listings found")
				return nil
			}

			table := NewTable(output, "ID", "Title", "City", "Price/night", "Rating", "Published")
			for _, l := range listings {
				published := "no"
				if l.Published {
					published = output.Green("yes")
				}
				table.AddRow(
					l.ID,
					l.Title,
					l.Address.City,
					FormatMoney(l.Price),
					FormatStars(analytics.AverageRating(l.Reviews)),
					published,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Bool("mine", false, "only listings owned by the logged-in user")
	cmd.Flags().Bool("offline", false, "use the local cache instead of the backend")
	return cmd
}

// fetchListings loads listings from the backend (retrying transient
// failures) and refreshes the local cache, or serves the cache directly in
// offline mode.
func fetchListings(ctx context.Context, app *App, offline bool) ([]models.Listing, error) {
	if offline {
		if app.Store == nil {
			return nil, fmt.Errorf("local store unavailable")
		}
		return app.Store.GetCachedListings(ctx)
	}

	listings, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() ([]models.Listing, error) {
		return app.Client.GetListings(ctx)
	})
	if err != nil {
		return nil, err
	}

	if app.Store != nil {
		if cacheErr := app.Store.CacheListings(ctx, listings); cacheErr != nil {
			app.Logger.Warn().Err(cacheErr).Msg("Could not refresh listing cache")
		}
	}
	return listings, nil
}

func newListingsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <listing-id>",
		Short: "Show a listing in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			listing, err := app.Client.GetListing(ctx, args[0])
			if err != nil {
				output.Error("Could not fetch listing: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(listing)
			}

			output.Bold("%s", listing.Title)
			output.Printf("  %s, %s\n", listing.Address.Street, listing.Address.City)
			output.Printf("  %s · %d beds · %.1f bathrooms\n",
				listing.PropertyType(), listing.TotalBeds(), listing.Bathrooms())
			output.Printf("  %s per night\n", FormatMoney(listing.Price))
			output.Printf("  Rating: %s\n", FormatStars(analytics.AverageRating(listing.Reviews)))
			if days := analytics.DaysOnline(listing.PostedOn, models.Today()); days > 0 {
				output.Printf("  Online for %d days\n", days)
			}

			if len(listing.Availability) > 0 {
				output.Println()
				output.Bold("Availability")
				for _, r := range listing.Availability {
					output.Printf("  %s\n", FormatRange(r))
				}
			}

			if len(listing.Reviews) > 0 {
				breakdown := analytics.BreakdownRatings(listing.Reviews)
				output.Println()
				output.Bold("Reviews (%d)", breakdown.Total)
				for star := 5; star >= 1; star-- {
					output.Printf("  %d★ %3d (%.1f%%)\n",
						star, breakdown.Counts[star], breakdown.Percentage(star))
				}
			}
			return nil
		},
	}
}

func newListingsCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new listing",
		Example: `  staymate listings create --title "Beach Hut" --street "1 Shore Rd" --city Brighton --price 120
  staymate listings create --title Loft --city Berlin --price 95 --type Apartment --bedrooms 2,1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			req, err := listingRequestFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			id, err := app.Client.CreateListing(ctx, req)
			if err != nil {
				output.Error("Could not create listing: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"listingId": id})
			}
			output.Success("Listing created: %s", id)
			return nil
		},
	}

	addListingFlags(cmd)
	return cmd
}

func newListingsUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <listing-id>",
		Short: "Update an existing listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			req, err := listingRequestFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if err := app.Client.UpdateListing(ctx, args[0], req); err != nil {
				output.Error("Could not update listing: %v", err)
				return err
			}

			output.Success("Listing updated")
			return nil
		},
	}

	addListingFlags(cmd)
	return cmd
}

func addListingFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "listing title")
	cmd.Flags().String("street", "", "street address")
	cmd.Flags().String("city", "", "city")
	cmd.Flags().Float64("price", 0, "nightly price")
	cmd.Flags().String("thumbnail", "", "thumbnail URL")
	cmd.Flags().String("type", "", "property type (House, Apartment, ...)")
	cmd.Flags().Float64("bathrooms", 0, "number of bathrooms")
	cmd.Flags().String("bedrooms", "", "beds per bedroom, comma separated (e.g. 2,1,1)")
	cmd.Flags().StringSlice("amenities", nil, "amenities")
}

func listingRequestFromFlags(cmd *cobra.Command) (models.ListingRequest, error) {
	title, _ := cmd.Flags().GetString("title")
	street, _ := cmd.Flags().GetString("street")
	city, _ := cmd.Flags().GetString("city")
	price, _ := cmd.Flags().GetFloat64("price")
	thumbnail, _ := cmd.Flags().GetString("thumbnail")
	propertyType, _ := cmd.Flags().GetString("type")
	bathrooms, _ := cmd.Flags().GetFloat64("bathrooms")
	bedroomsSpec, _ := cmd.Flags().GetString("bedrooms")
	amenities, _ := cmd.Flags().GetStringSlice("amenities")

	var bedrooms []models.Bedroom
	if bedroomsSpec != "" {
		for _, part := range strings.Split(bedroomsSpec, ",") {
			var beds int
			if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &beds); err != nil {
				return models.ListingRequest{}, fmt.Errorf("invalid --bedrooms value %q", part)
			}
			bedrooms = append(bedrooms, models.Bedroom{Beds: beds})
		}
	}

	req := models.ListingRequest{
		Title:     title,
		Address:   models.Address{Street: street, City: city},
		Price:     price,
		Thumbnail: thumbnail,
		Metadata: models.Metadata{
			PropertyType: propertyType,
			Bathrooms:    bathrooms,
			Bedrooms:     bedrooms,
			Amenities:    amenities,
		},
	}
	return req, nil
}

func newListingsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <listing-id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Client.DeleteListing(ctx, args[0]); err != nil {
				output.Error("Could not delete listing: %v", err)
				return err
			}
			output.Success("Listing deleted")
			return nil
		},
	}
}

func newListingsPublishCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <listing-id>",
		Short: "Publish a listing with availability windows",
		Long: `Publish a listing so guests can find and book it.

Each --range flag adds one availability window as start:end in YYYY-MM-DD
form. A booking request must fit entirely inside a single window.`,
		Example: `  staymate listings publish l1 --range 2026-09-01:2026-09-15
  staymate listings publish l1 --range 2026-09-01:2026-09-15 --range 2026-10-01:2026-10-20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			specs, _ := cmd.Flags().GetStringArray("range")
			availability, err := parseRanges(specs)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if err := app.Client.PublishListing(ctx, args[0], availability); err != nil {
				output.Error("Could not publish listing: %v", err)
				return err
			}

			output.Success("Listing published with %d availability window(s)", len(availability))
			return nil
		},
	}

	cmd.Flags().StringArray("range", nil, "availability window start:end (YYYY-MM-DD)")
	return cmd
}

func parseRanges(specs []string) ([]models.DateRange, error) {
	var ranges []models.DateRange
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid range %q: expected start:end", spec)
		}
		start, err := models.ParseDate(parts[0])
		if err != nil {
			return nil, err
		}
		end, err := models.ParseDate(parts[1])
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, models.DateRange{Start: start, End: end})
	}
	return ranges, nil
}

func newListingsUnpublishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish <listing-id>",
		Short: "Take a listing offline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Client.UnpublishListing(ctx, args[0]); err != nil {
				output.Error("Could not unpublish listing: %v", err)
				return err
			}
			output.Success("Listing unpublished")
			return nil
		},
	}
}

func newListingsReviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "review <listing-id> <booking-id>",
		Short:   "Leave a review for a completed stay",
		Example: `  staymate listings review l1 b42 --rating 5 --comment "Great stay"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			rating, _ := cmd.Flags().GetFloat64("rating")
			comment, _ := cmd.Flags().GetString("comment")

			if rating < 1 || rating > 5 {
				output.Error("Rating must be between 1 and 5")
				return fmt.Errorf("rating out of range")
			}

			review := models.Review{
				Owner:   app.Client.Email(),
				Rating:  rating,
				Comment: comment,
			}
			if err := app.Client.LeaveReview(ctx, args[0], args[1], review); err != nil {
				output.Error("Could not submit review: %v", err)
				return err
			}

			output.Success("Review submitted")
			return nil
		},
	}

	cmd.Flags().Float64("rating", 0, "star rating 1-5")
	cmd.Flags().String("comment", "", "review comment")
	return cmd
}
