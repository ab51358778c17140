// Package search provides client-side listing search: availability window
// matching and attribute filters over the full listing set.
package search

import "staymate/internal/models"

// IsAvailable reports whether a listing can host the requested stay.
//
// A listing qualifies only when at least one published availability range
// fully contains the requested window; partial overlap is not enough, the
// whole stay has to fit inside a single range. A listing with no published
// availability never qualifies.
func IsAvailable(listing models.Listing, requested models.DateRange) bool {
	if len(listing.Availability) == 0 {
		return false
	}
	if !requested.Valid() {
		return false
	}

	for _, avail := range listing.Availability {
		if avail.Contains(requested) {
			return true
		}
	}

	return false
}
