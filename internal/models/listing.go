package models

import "time"

// Address locates a listing.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Bedroom describes a single bedroom within a listing.
type Bedroom struct {
	Type string `json:"type,omitempty"`
	Beds int    `json:"beds"`
}

// Metadata holds the free-form property details a host attaches to a listing.
// All fields are optional; accessors below default missing values to zero.
type Metadata struct {
	PropertyType string    `json:"propertyType,omitempty"`
	Bathrooms    float64   `json:"bathrooms,omitempty"`
	Beds         int       `json:"beds,omitempty"`
	Bedrooms     []Bedroom `json:"bedrooms,omitempty"`
	Amenities    []string  `json:"amenities,omitempty"`
	Images       []string  `json:"images,omitempty"`
}

// Review is a guest's rating of a completed stay.
type Review struct {
	Owner   string  `json:"owner,omitempty"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment,omitempty"`
}

// Listing represents a rental property.
type Listing struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Owner        string      `json:"owner"`
	Address      Address     `json:"address"`
	Price        float64     `json:"price"` // nightly price
	Thumbnail    string      `json:"thumbnail,omitempty"`
	Metadata     Metadata    `json:"metadata"`
	Reviews      []Review    `json:"reviews,omitempty"`
	Availability []DateRange `json:"availability,omitempty"`
	Published    bool        `json:"published"`
	PostedOn     time.Time   `json:"postedOn,omitempty"`
}

// TotalBeds returns the listing's bed count. If the host set an explicit
// count it wins; otherwise the bedroom breakdown is summed.
func (l Listing) TotalBeds() int {
	if l.Metadata.Beds > 0 {
		return l.Metadata.Beds
	}
	total := 0
	for _, room := range l.Metadata.Bedrooms {
		total += room.Beds
	}
	return total
}

// Bathrooms returns the bathroom count, zero when unset.
func (l Listing) Bathrooms() float64 {
	return l.Metadata.Bathrooms
}

// PropertyType returns the property type, defaulting to "Property".
func (l Listing) PropertyType() string {
	if l.Metadata.PropertyType == "" {
		return "Property"
	}
	return l.Metadata.PropertyType
}

// ListingRequest is the payload for creating or updating a listing.
type ListingRequest struct {
	Title     string   `json:"title"`
	Address   Address  `json:"address"`
	Price     float64  `json:"price"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Metadata  Metadata `json:"metadata"`
}

// Validate checks a listing payload before it is sent to the backend.
func (l ListingRequest) Validate() error {
	inputErr := NewInputError()

	if l.Title == "" {
		inputErr.Add("title", "provide a title")
	}

	if l.Address.Street == "" && l.Address.City == "" {
		inputErr.Add("address", "provide at least a street or a city")
	}

	if l.Price <= 0 {
		inputErr.Add("price", "nightly price must be greater than zero")
	}

	for i, room := range l.Metadata.Bedrooms {
		if room.Beds < 0 {
			inputErr.Addf("metadata.bedrooms", "bedroom %d: beds must not be negative", i+1)
		}
	}

	if inputErr.Count() > 0 {
		return inputErr
	}

	return nil
}

// ValidateAvailability checks the date ranges a host is about to publish.
// At least one range is required, every range needs both bounds with start
// strictly before end, and no range may start in the past.
func ValidateAvailability(ranges []DateRange, today Date) error {
	inputErr := NewInputError()

	if len(ranges) == 0 {
		inputErr.Add("availability", "at least one availability date range is required")
	}

	for i, r := range ranges {
		if r.Start.IsZero() || r.End.IsZero() {
			inputErr.Addf("availability", "range %d: both start and end dates are required", i+1)
			continue
		}
		if !r.Start.Before(r.End.Time) {
			inputErr.Addf("availability", "range %d: start date must be before end date", i+1)
		}
		if r.Start.Before(today.Time) {
			inputErr.Addf("availability", "range %d: start date cannot be in the past", i+1)
		}
	}

	if inputErr.Count() > 0 {
		return inputErr
	}

	return nil
}
