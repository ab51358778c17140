package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"staymate/internal/models"
)

// genBooking produces accepted bookings with stays of 1..14 nights starting
// within +/- 45 days of the series anchor, so some land inside the window,
// some straddle it and some miss it entirely.
func genBooking(asOf models.Date) gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(-45, 45),
		gen.IntRange(1, 14),
		gen.Float64Range(0, 5000),
	).Map(func(values []interface{}) models.Booking {
		startOffset := values[0].(int)
		nights := values[1].(int)
		price := values[2].(float64)

		start := asOf.AddDays(startOffset)
		return models.Booking{
			ID:         "b",
			ListingID:  "l1",
			Owner:      "guest@example.com",
			DateRange:  models.DateRange{Start: start, End: start.AddDays(nights)},
			TotalPrice: price,
			Status:     models.BookingAccepted,
		}
	})
}

func TestProfitSeriesProperties(t *testing.T) {
	asOf := models.NewDate(2026, time.August, 31)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("series always has a point per day, newest last", prop.ForAll(
		func(bookings []models.Booking) bool {
			series := DailyProfitSeries(bookings, asOf)
			if len(series) != SeriesDays+1 {
				return false
			}
			for i, point := range series {
				if point.DaysAgo != SeriesDays-i {
					return false
				}
				if point.Date.String() != asOf.AddDays(-point.DaysAgo).String() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genBooking(asOf)),
	))

	properties.Property("profits are never negative", prop.ForAll(
		func(bookings []models.Booking) bool {
			for _, point := range DailyProfitSeries(bookings, asOf) {
				if point.Profit < 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genBooking(asOf)),
	))

	properties.Property("total never exceeds the sum of booking prices", prop.ForAll(
		func(bookings []models.Booking) bool {
			var ceiling float64
			for _, b := range bookings {
				ceiling += b.TotalPrice
			}
			// Allow a cent of rounding per day.
			return TotalProfit(DailyProfitSeries(bookings, asOf)) <= ceiling+0.01*float64(SeriesDays+1)
		},
		gen.SliceOf(genBooking(asOf)),
	))

	properties.Property("a stay fully inside the window contributes its whole price", prop.ForAll(
		func(startOffset, nights int, price float64) bool {
			start := asOf.AddDays(-startOffset)
			booking := models.Booking{
				ID:         "b1",
				DateRange:  models.DateRange{Start: start, End: start.AddDays(nights)},
				TotalPrice: price,
				Status:     models.BookingAccepted,
			}
			total := TotalProfit(DailyProfitSeries([]models.Booking{booking}, asOf))
			return math.Abs(total-roundCents(price)) <= 0.01*float64(nights)
		},
		gen.IntRange(10, SeriesDays),
		gen.IntRange(1, 9),
		gen.Float64Range(0, 5000),
	))

	properties.Property("nightly rate times nights recovers the price", prop.ForAll(
		func(nights int, price float64) bool {
			start := models.NewDate(2026, time.January, 1)
			booking := models.Booking{
				DateRange:  models.DateRange{Start: start, End: start.AddDays(nights)},
				TotalPrice: price,
				Status:     models.BookingAccepted,
			}
			got := NightlyRate(booking) * float64(nights)
			return math.Abs(got-price) < 1e-6
		},
		gen.IntRange(1, 60),
		gen.Float64Range(0, 1e6),
	))

	properties.TestingRun(t)
}
