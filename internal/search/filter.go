package search

import (
	"sort"
	"strings"

	"staymate/internal/models"
)

// Filter describes the search criteria a guest can combine. Zero values
// mean "no constraint" for the respective field.
type Filter struct {
	// Text matches against title and city, case-insensitive.
	Text string
	// Window keeps only listings that can host the whole stay.
	Window models.DateRange
	// MinPrice and MaxPrice bound the nightly price.
	MinPrice float64
	MaxPrice float64
	// MinBedrooms is the minimum number of bedrooms.
	MinBedrooms int
}

// Apply returns the published listings matching the filter, sorted by
// title for stable output. The input slice is not modified.
func Apply(listings []models.Listing, f Filter) []models.Listing {
	var matched []models.Listing

	text := strings.ToLower(strings.TrimSpace(f.Text))

	for _, l := range listings {
		if !l.Published {
			continue
		}
		if text != "" && !matchText(l, text) {
			continue
		}
		if f.Window.Valid() && !IsAvailable(l, f.Window) {
			continue
		}
		if f.MinPrice > 0 && l.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && l.Price > f.MaxPrice {
			continue
		}
		if f.MinBedrooms > 0 && len(l.Metadata.Bedrooms) < f.MinBedrooms {
			continue
		}
		matched = append(matched, l)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Title < matched[j].Title
	})

	return matched
}

func matchText(l models.Listing, text string) bool {
	if strings.Contains(strings.ToLower(l.Title), text) {
		return true
	}
	return strings.Contains(strings.ToLower(l.Address.City), text)
}
