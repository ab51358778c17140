package search

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"staymate/internal/models"
)

func dayRange(startOffset, nights int) models.DateRange {
	base := models.NewDate(2026, time.September, 1)
	start := base.AddDays(startOffset)
	return models.DateRange{Start: start, End: start.AddDays(nights)}
}

func TestAvailabilityProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genRange := gopter.CombineGens(
		gen.IntRange(0, 60),
		gen.IntRange(1, 21),
	).Map(func(values []interface{}) models.DateRange {
		return dayRange(values[0].(int), values[1].(int))
	})

	properties.Property("a window inside a published range always matches", prop.ForAll(
		func(availStart, availNights, shrinkStart, shrinkEnd int) bool {
			avail := dayRange(availStart, availNights)
			requested := models.DateRange{
				Start: avail.Start.AddDays(shrinkStart % availNights),
				End:   avail.End.AddDays(-(shrinkEnd % availNights)),
			}
			if !requested.Valid() {
				return true
			}
			listing := models.Listing{Availability: []models.DateRange{avail}}
			return IsAvailable(listing, requested)
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 21),
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.Property("a window extending past every range never matches", prop.ForAll(
		func(availStart, availNights, extra int) bool {
			avail := dayRange(availStart, availNights)
			requested := models.DateRange{
				Start: avail.Start,
				End:   avail.End.AddDays(extra),
			}
			listing := models.Listing{Availability: []models.DateRange{avail}}
			return !IsAvailable(listing, requested)
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 21),
		gen.IntRange(1, 30),
	))

	properties.Property("matching is unaffected by extra non-matching ranges", prop.ForAll(
		func(requested models.DateRange, decoys []models.DateRange) bool {
			matching := models.DateRange{
				Start: requested.Start.AddDays(-1),
				End:   requested.End.AddDays(1),
			}

			withMatch := models.Listing{Availability: append(append([]models.DateRange{}, decoys...), matching)}
			return IsAvailable(withMatch, requested)
		},
		genRange,
		gen.SliceOfN(3, gopter.CombineGens(
			gen.IntRange(200, 300),
			gen.IntRange(1, 5),
		).Map(func(values []interface{}) models.DateRange {
			return dayRange(values[0].(int), values[1].(int))
		})),
	))

	properties.Property("filter output is a subset of the published input", prop.ForAll(
		func(window models.DateRange) bool {
			listings := []models.Listing{
				{ID: "a", Title: "A", Published: true, Availability: []models.DateRange{dayRange(0, 90)}},
				{ID: "b", Title: "B", Published: false, Availability: []models.DateRange{dayRange(0, 90)}},
				{ID: "c", Title: "C", Published: true},
			}
			for _, l := range Apply(listings, Filter{Window: window}) {
				if !l.Published {
					return false
				}
				if !IsAvailable(l, window) {
					return false
				}
			}
			return true
		},
		genRange,
	))

	properties.TestingRun(t)
}
