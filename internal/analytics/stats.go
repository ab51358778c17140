package analytics

import (
	"math"
	"time"

	"staymate/internal/models"
)

// DaysOnline returns how many days a listing has been posted as of the given
// date, rounding partial days up. Zero when the posted date is unset.
func DaysOnline(postedOn time.Time, asOf models.Date) int {
	if postedOn.IsZero() {
		return 0
	}
	hours := asOf.Sub(postedOn).Hours()
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 24))
}

// StayPrice computes the total price of a stay at the listing's nightly
// price. Zero for a degenerate window.
func StayPrice(listing models.Listing, window models.DateRange) float64 {
	nights := window.Nights()
	if nights <= 0 {
		return 0
	}
	return float64(nights) * listing.Price
}

// AverageRating returns the mean review rating, zero when there are no
// reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var total float64
	for _, review := range reviews {
		total += review.Rating
	}
	return total / float64(len(reviews))
}

// RatingBreakdown is a histogram of reviews over the 1..5 star buckets.
type RatingBreakdown struct {
	Counts map[int]int
	Total  int
}

// BreakdownRatings buckets reviews by their rounded star rating. Ratings
// outside 1..5 after rounding are ignored.
func BreakdownRatings(reviews []models.Review) RatingBreakdown {
	breakdown := RatingBreakdown{
		Counts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Total:  len(reviews),
	}
	for _, review := range reviews {
		star := int(math.Round(review.Rating))
		if star >= 1 && star <= 5 {
			breakdown.Counts[star]++
		}
	}
	return breakdown
}

// Percentage returns the share of reviews in the given star bucket.
func (b RatingBreakdown) Percentage(star int) float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Counts[star]) / float64(b.Total) * 100
}
