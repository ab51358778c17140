// Package store provides local data persistence for the rental client: the
// booking-status snapshot the notification diff depends on, a notification
// log, and offline caches of listings and bookings.
package store

import (
	"context"
	"time"

	"staymate/internal/models"
	"staymate/internal/notifications"
)

// DataStore defines the interface for local persistence.
type DataStore interface {
	// Booking status snapshot (feeds the notification diff)
	LoadBookingStatuses(ctx context.Context) (notifications.StatusMap, error)
	SaveBookingStatuses(ctx context.Context, statuses notifications.StatusMap) error

	// Notification log
	SaveNotifications(ctx context.Context, events []models.NotificationEvent) error
	GetNotifications(ctx context.Context, filter NotificationFilter) ([]models.NotificationEvent, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	ClearNotifications(ctx context.Context) error

	// Offline caches
	CacheListings(ctx context.Context, listings []models.Listing) error
	GetCachedListings(ctx context.Context) ([]models.Listing, error)
	CacheBookings(ctx context.Context, bookings []models.Booking) error
	GetCachedBookings(ctx context.Context) ([]models.Booking, error)

	// Sync bookkeeping
	GetLastSync(dataType string) time.Time
	SetLastSync(dataType string, t time.Time) error

	// Lifecycle
	Close() error
}

// NotificationFilter represents filters for querying the notification log.
type NotificationFilter struct {
	// Unread keeps only unread notifications when true.
	Unread bool
	// Kind keeps only notifications of the given kind when set.
	Kind models.EventKind
	// Limit caps the number of rows returned; 0 means no cap.
	Limit int
}

// Data types tracked in the sync table.
const (
	SyncTypeListings = "listings"
	SyncTypeBookings = "bookings"
)
