// Package analytics computes booking-derived statistics for hosts: the
// 30-day daily profit series and per-year occupancy and earnings totals.
// All functions are pure; they never modify their inputs.
package analytics

import (
	"math"

	"staymate/internal/models"
)

// SeriesDays is the lookback window of the daily profit series. The series
// always carries SeriesDays+1 points, from SeriesDays days ago through today.
const SeriesDays = 30

// ProfitPoint is one day of the profit series.
type ProfitPoint struct {
	DaysAgo int         `json:"daysAgo"`
	Date    models.Date `json:"date"`
	Profit  float64     `json:"profit"`
}

// ProfitSeries is a fully populated daily profit time series, ordered from
// the oldest day (DaysAgo == SeriesDays) to today (DaysAgo == 0).
type ProfitSeries []ProfitPoint

// DailyProfitSeries builds the profit series for the 31 calendar days ending
// at asOf. Only accepted bookings contribute. Each booking's total price is
// spread evenly across its nights, and a day earns that nightly rate for
// every booking covering it; the checkout day earns nothing. Per-day values
// are rounded to cents only after all bookings have been accumulated, so
// overlapping bookings do not compound rounding error.
func DailyProfitSeries(bookings []models.Booking, asOf models.Date) ProfitSeries {
	asOf = models.Midnight(asOf.Time)

	series := make(ProfitSeries, 0, SeriesDays+1)
	for daysAgo := SeriesDays; daysAgo >= 0; daysAgo-- {
		series = append(series, ProfitPoint{
			DaysAgo: daysAgo,
			Date:    asOf.AddDays(-daysAgo),
		})
	}

	for _, booking := range bookings {
		if booking.Status != models.BookingAccepted {
			continue
		}

		rate := NightlyRate(booking)
		if rate == 0 {
			continue
		}

		for i := range series {
			if booking.DateRange.Covers(series[i].Date) {
				series[i].Profit += rate
			}
		}
	}

	for i := range series {
		series[i].Profit = roundCents(series[i].Profit)
	}

	return series
}

// NightlyRate derives a booking's per-night price. A degenerate range with
// zero or negative nights yields a rate of zero rather than an error.
func NightlyRate(booking models.Booking) float64 {
	nights := booking.DateRange.Nights()
	if nights <= 0 {
		return 0
	}
	return booking.TotalPrice / float64(nights)
}

// TotalProfit sums the series, rounded to cents.
func TotalProfit(series ProfitSeries) float64 {
	var total float64
	for _, point := range series {
		total += point.Profit
	}
	return roundCents(total)
}

// DaysBookedInYear counts the nights of accepted bookings that touch the
// given calendar year. A booking counts when its range overlaps the year at
// all, and its full night count is used without clipping to the year's
// bounds, so a stay spanning New Year's Eve is counted whole in both years.
func DaysBookedInYear(bookings []models.Booking, year int) int {
	total := 0
	for _, booking := range bookings {
		if booking.Status != models.BookingAccepted {
			continue
		}
		if overlapsYear(booking.DateRange, year) {
			total += booking.DateRange.Nights()
		}
	}
	return total
}

// ProfitInYear sums the full total price of accepted bookings touching the
// given calendar year. Like DaysBookedInYear, a year-spanning booking is
// counted whole in every year it touches.
func ProfitInYear(bookings []models.Booking, year int) float64 {
	var total float64
	for _, booking := range bookings {
		if booking.Status != models.BookingAccepted {
			continue
		}
		if overlapsYear(booking.DateRange, year) {
			total += booking.TotalPrice
		}
	}
	return roundCents(total)
}

func overlapsYear(r models.DateRange, year int) bool {
	return r.Start.Year() <= year && r.End.Year() >= year
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
