// Package notifications derives notification events from polled booking
// state. The diff engine is a pure fold over successive booking snapshots;
// the poller drives it on a timer and fans events out to subscribers.
package notifications

import (
	"fmt"
	"time"

	"staymate/internal/models"
)

// StatusMap records the last seen status of each booking, keyed by booking ID.
type StatusMap map[string]models.BookingStatus

// DiffResult is the outcome of one diff over a booking snapshot.
type DiffResult struct {
	// Events are the notification events raised by this snapshot, in
	// booking order. Events are viewer-agnostic; apply a ViewerContext to
	// route them.
	Events []models.NotificationEvent
	// Next is the last-seen map to feed into the following diff. It is
	// rebuilt wholesale from the current snapshot, so bookings deleted
	// server-side silently drop out of tracking.
	Next StatusMap
}

// Diff compares the current booking snapshot against the previously seen
// statuses and emits one event per observed transition:
//
//	unseen  -> pending   booking_request
//	pending -> accepted  booking_accepted
//	pending -> declined  booking_declined
//
// Every other observation is silent. In particular, a booking first seen
// already resolved emits nothing: on first load there is no history to
// notify about, and repeating a resolved status across polls must not
// re-notify. A nil prev map is treated as empty.
func Diff(prev StatusMap, current []models.Booking, now time.Time) DiffResult {
	result := DiffResult{
		Next: make(StatusMap, len(current)),
	}

	for _, booking := range current {
		lastStatus, seen := prev[booking.ID]

		switch {
		case booking.Status == models.BookingPending && !seen:
			result.Events = append(result.Events, newEvent(booking, models.EventBookingRequest, now))

		case booking.Status == models.BookingAccepted && seen && lastStatus == models.BookingPending:
			result.Events = append(result.Events, newEvent(booking, models.EventBookingAccepted, now))

		case booking.Status == models.BookingDeclined && seen && lastStatus == models.BookingPending:
			result.Events = append(result.Events, newEvent(booking, models.EventBookingDeclined, now))
		}

		result.Next[booking.ID] = booking.Status
	}

	return result
}

func newEvent(booking models.Booking, kind models.EventKind, now time.Time) models.NotificationEvent {
	return models.NotificationEvent{
		ID:        models.EventID(booking.ID, kind),
		Kind:      kind,
		Message:   eventMessage(booking, kind),
		BookingID: booking.ID,
		ListingID: booking.ListingID,
		Requester: booking.Owner,
		DateRange: booking.DateRange,
		Timestamp: now,
	}
}

func eventMessage(booking models.Booking, kind models.EventKind) string {
	switch kind {
	case models.EventBookingRequest:
		return fmt.Sprintf("New booking request for listing %s", booking.ListingID)
	case models.EventBookingAccepted:
		return "Your booking request has been accepted!"
	case models.EventBookingDeclined:
		return "Your booking request has been declined"
	}
	return string(kind)
}

// ViewerContext identifies who is looking at the notification feed. The
// engine itself is viewer-agnostic; this filter decides which events matter
// to a given user.
type ViewerContext struct {
	// Email is the viewer's identity as known to the backend.
	Email string
	// ListingIDs are the listings the viewer owns.
	ListingIDs map[string]bool
}

// NewViewerContext builds a viewer context from an email and the viewer's
// listings.
func NewViewerContext(email string, listings []models.Listing) ViewerContext {
	owned := make(map[string]bool)
	for _, l := range listings {
		if l.Owner == email {
			owned[l.ID] = true
		}
	}
	return ViewerContext{Email: email, ListingIDs: owned}
}

// Relevant reports whether an event concerns the viewer. Booking requests go
// to the listing's owner; acceptance and decline go to the guest who made
// the request.
func (v ViewerContext) Relevant(event models.NotificationEvent) bool {
	switch event.Kind {
	case models.EventBookingRequest:
		return v.ListingIDs[event.ListingID]
	case models.EventBookingAccepted, models.EventBookingDeclined:
		return event.Requester == v.Email
	}
	return false
}

// FilterRelevant keeps only the events relevant to the viewer.
func (v ViewerContext) FilterRelevant(events []models.NotificationEvent) []models.NotificationEvent {
	var relevant []models.NotificationEvent
	for _, event := range events {
		if v.Relevant(event) {
			relevant = append(relevant, event)
		}
	}
	return relevant
}
