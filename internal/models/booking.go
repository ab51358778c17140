package models

// BookingStatus represents the lifecycle state of a booking request.
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingAccepted BookingStatus = "accepted"
	BookingDeclined BookingStatus = "declined"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingDeclined:
		return true
	}
	return false
}

// Resolved reports whether the booking has left the pending state.
// Transitions are one-way: a resolved booking never becomes pending again.
func (s BookingStatus) Resolved() bool {
	return s == BookingAccepted || s == BookingDeclined
}

// Booking represents a guest's request to stay at a listing.
type Booking struct {
	ID         string        `json:"id"`
	ListingID  string        `json:"listingId"`
	Owner      string        `json:"owner"` // requester's email
	DateRange  DateRange     `json:"dateRange"`
	TotalPrice float64       `json:"totalPrice"`
	Status     BookingStatus `json:"status"`
}

// BookingRequest is the payload for creating a booking.
type BookingRequest struct {
	ListingID  string    `json:"listingId"`
	DateRange  DateRange `json:"dateRange"`
	TotalPrice float64   `json:"totalPrice"`
}

// Validate checks a booking request before it is sent to the backend.
func (b BookingRequest) Validate() error {
	inputErr := NewInputError()

	if b.ListingID == "" {
		inputErr.Add("listingId", "provide a listing id")
	}

	if !b.DateRange.Valid() {
		inputErr.Add("dateRange", "check-in must be before check-out")
	}

	if b.TotalPrice < 0 {
		inputErr.Add("totalPrice", "total price must not be negative")
	}

	if inputErr.Count() > 0 {
		return inputErr
	}

	return nil
}
