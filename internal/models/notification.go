package models

import "time"

// EventKind represents the type of a notification event.
type EventKind string

const (
	// EventBookingRequest is raised for a host when a new pending request
	// appears on one of their listings.
	EventBookingRequest EventKind = "booking_request"
	// EventBookingAccepted is raised for a guest when their request is accepted.
	EventBookingAccepted EventKind = "booking_accepted"
	// EventBookingDeclined is raised for a guest when their request is declined.
	EventBookingDeclined EventKind = "booking_declined"
)

// IDSuffix returns the deterministic suffix used to build event IDs.
func (k EventKind) IDSuffix() string {
	switch k {
	case EventBookingRequest:
		return "new"
	case EventBookingAccepted:
		return "accepted"
	case EventBookingDeclined:
		return "declined"
	}
	return string(k)
}

// NotificationEvent is a single notification produced by the booking diff.
// The ID is deterministic per (booking, transition) pair so an event is
// never minted twice for the same state change.
type NotificationEvent struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Message   string    `json:"message"`
	BookingID string    `json:"bookingId"`
	ListingID string    `json:"listingId"`
	Requester string    `json:"requester"` // booking owner's email
	DateRange DateRange `json:"dateRange"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// EventID builds the deterministic identifier for a booking transition.
func EventID(bookingID string, kind EventKind) string {
	return bookingID + "-" + kind.IDSuffix()
}
