// Package api provides the REST client for the rental listing backend.
package api

import (
	"context"

	"staymate/internal/models"
)

// Client defines the interface for backend operations.
type Client interface {
	// Authentication
	Register(ctx context.Context, email, password, name string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	Email() string

	// Listings
	GetListings(ctx context.Context) ([]models.Listing, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	CreateListing(ctx context.Context, req models.ListingRequest) (string, error)
	UpdateListing(ctx context.Context, id string, req models.ListingRequest) error
	DeleteListing(ctx context.Context, id string) error
	PublishListing(ctx context.Context, id string, availability []models.DateRange) error
	UnpublishListing(ctx context.Context, id string) error
	LeaveReview(ctx context.Context, listingID, bookingID string, review models.Review) error

	// Bookings
	GetBookings(ctx context.Context) ([]models.Booking, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (string, error)
	AcceptBooking(ctx context.Context, id string) error
	DeclineBooking(ctx context.Context, id string) error
	DeleteBooking(ctx context.Context, id string) error
}

// Backend endpoints.
const (
	endpointRegister = "/user/auth/register"
	endpointLogin    = "/user/auth/login"
	endpointLogout   = "/user/auth/logout"

	endpointListings    = "/listings"
	endpointListingNew  = "/listings/new"
	endpointBookings    = "/bookings"
	endpointBookingNew  = "/bookings/new"
)

func endpointListingDetail(id string) string    { return "/listings/" + id }
func endpointListingPublish(id string) string   { return "/listings/publish/" + id }
func endpointListingUnpublish(id string) string { return "/listings/unpublish/" + id }
func endpointListingReview(listingID, bookingID string) string {
	return "/listings/" + listingID + "/review/" + bookingID
}

func endpointBookingDetail(id string) string  { return "/bookings/" + id }
func endpointBookingAccept(id string) string  { return "/bookings/accept/" + id }
func endpointBookingDecline(id string) string { return "/bookings/decline/" + id }
