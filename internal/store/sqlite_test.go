package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"staymate/internal/models"
	"staymate/internal/notifications"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBookingStatusSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Empty store yields an empty, non-nil map.
	statuses, err := s.LoadBookingStatuses(ctx)
	if err != nil {
		t.Fatalf("LoadBookingStatuses: %v", err)
	}
	if statuses == nil || len(statuses) != 0 {
		t.Fatalf("fresh store statuses = %v, want empty map", statuses)
	}

	snapshot := notifications.StatusMap{
		"b1": models.BookingPending,
		"b2": models.BookingAccepted,
	}
	if err := s.SaveBookingStatuses(ctx, snapshot); err != nil {
		t.Fatalf("SaveBookingStatuses: %v", err)
	}

	loaded, err := s.LoadBookingStatuses(ctx)
	if err != nil {
		t.Fatalf("LoadBookingStatuses: %v", err)
	}
	if len(loaded) != 2 || loaded["b1"] != models.BookingPending || loaded["b2"] != models.BookingAccepted {
		t.Errorf("loaded = %v, want %v", loaded, snapshot)
	}

	// Saving replaces wholesale: entries absent from the new map disappear.
	if err := s.SaveBookingStatuses(ctx, notifications.StatusMap{"b2": models.BookingDeclined}); err != nil {
		t.Fatalf("SaveBookingStatuses: %v", err)
	}
	loaded, err = s.LoadBookingStatuses(ctx)
	if err != nil {
		t.Fatalf("LoadBookingStatuses: %v", err)
	}
	if len(loaded) != 1 || loaded["b2"] != models.BookingDeclined {
		t.Errorf("after replace, loaded = %v, want only b2=declined", loaded)
	}
}

func testEvent(id string, kind models.EventKind, ts time.Time) models.NotificationEvent {
	return models.NotificationEvent{
		ID:        id,
		Kind:      kind,
		Message:   "msg " + id,
		BookingID: "b1",
		ListingID: "l1",
		Requester: "guest@example.com",
		DateRange: models.MustRange("2026-09-01", "2026-09-05"),
		Timestamp: ts,
	}
}

func TestNotificationLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)
	events := []models.NotificationEvent{
		testEvent("b1-new", models.EventBookingRequest, base),
		testEvent("b1-accepted", models.EventBookingAccepted, base.Add(time.Hour)),
	}
	if err := s.SaveNotifications(ctx, events); err != nil {
		t.Fatalf("SaveNotifications: %v", err)
	}

	got, err := s.GetNotifications(ctx, NotificationFilter{})
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "b1-accepted" {
		t.Errorf("first notification = %s, want b1-accepted", got[0].ID)
	}
	if got[1].DateRange.Start.String() != "2026-09-01" {
		t.Errorf("round-tripped start date = %s, want 2026-09-01", got[1].DateRange.Start)
	}

	// Deterministic IDs dedupe replays.
	if err := s.SaveNotifications(ctx, events[:1]); err != nil {
		t.Fatalf("replay SaveNotifications: %v", err)
	}
	got, err = s.GetNotifications(ctx, NotificationFilter{})
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("after replay, got %d notifications, want 2", len(got))
	}

	// Kind and limit filters.
	got, err = s.GetNotifications(ctx, NotificationFilter{Kind: models.EventBookingRequest})
	if err != nil {
		t.Fatalf("GetNotifications(kind): %v", err)
	}
	if len(got) != 1 || got[0].ID != "b1-new" {
		t.Errorf("kind filter got %v, want just b1-new", got)
	}
	got, err = s.GetNotifications(ctx, NotificationFilter{Limit: 1})
	if err != nil {
		t.Fatalf("GetNotifications(limit): %v", err)
	}
	if len(got) != 1 {
		t.Errorf("limit filter got %d, want 1", len(got))
	}
}

func TestMarkAndClearNotifications(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Now().UTC()
	if err := s.SaveNotifications(ctx, []models.NotificationEvent{
		testEvent("b1-new", models.EventBookingRequest, base),
		testEvent("b2-new", models.EventBookingRequest, base.Add(time.Minute)),
	}); err != nil {
		t.Fatalf("SaveNotifications: %v", err)
	}

	if err := s.MarkNotificationRead(ctx, "b1-new"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	unread, err := s.GetNotifications(ctx, NotificationFilter{Unread: true})
	if err != nil {
		t.Fatalf("GetNotifications(unread): %v", err)
	}
	if len(unread) != 1 || unread[0].ID != "b2-new" {
		t.Errorf("unread = %v, want just b2-new", unread)
	}

	if err := s.MarkNotificationRead(ctx, "nope"); err == nil {
		t.Error("marking an unknown notification should fail")
	}

	if err := s.MarkAllNotificationsRead(ctx); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	unread, err = s.GetNotifications(ctx, NotificationFilter{Unread: true})
	if err != nil {
		t.Fatalf("GetNotifications(unread): %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("after mark all, %d unread, want 0", len(unread))
	}

	if err := s.ClearNotifications(ctx); err != nil {
		t.Fatalf("ClearNotifications: %v", err)
	}
	all, err := s.GetNotifications(ctx, NotificationFilter{})
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("after clear, %d notifications, want 0", len(all))
	}
}

func TestOfflineCaches(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	listings := []models.Listing{
		{ID: "l1", Title: "Beach house", Owner: "host@example.com", Price: 150, Published: true,
			Availability: []models.DateRange{models.MustRange("2026-09-01", "2026-09-30")}},
		{ID: "l2", Title: "City studio", Price: 80},
	}
	if err := s.CacheListings(ctx, listings); err != nil {
		t.Fatalf("CacheListings: %v", err)
	}

	cached, err := s.GetCachedListings(ctx)
	if err != nil {
		t.Fatalf("GetCachedListings: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("cached %d listings, want 2", len(cached))
	}
	byID := map[string]models.Listing{}
	for _, l := range cached {
		byID[l.ID] = l
	}
	if byID["l1"].Title != "Beach house" || len(byID["l1"].Availability) != 1 {
		t.Errorf("l1 round-trip = %+v", byID["l1"])
	}

	// Replacing shrinks the cache.
	if err := s.CacheListings(ctx, listings[:1]); err != nil {
		t.Fatalf("CacheListings: %v", err)
	}
	cached, err = s.GetCachedListings(ctx)
	if err != nil {
		t.Fatalf("GetCachedListings: %v", err)
	}
	if len(cached) != 1 {
		t.Errorf("after replace, cached %d listings, want 1", len(cached))
	}

	if s.GetLastSync(SyncTypeListings).IsZero() {
		t.Error("caching listings should record a sync time")
	}

	bookings := []models.Booking{{
		ID: "b1", ListingID: "l1", Owner: "guest@example.com",
		DateRange: models.MustRange("2026-09-10", "2026-09-12"), TotalPrice: 300,
		Status: models.BookingPending,
	}}
	if err := s.CacheBookings(ctx, bookings); err != nil {
		t.Fatalf("CacheBookings: %v", err)
	}
	gotBookings, err := s.GetCachedBookings(ctx)
	if err != nil {
		t.Fatalf("GetCachedBookings: %v", err)
	}
	if len(gotBookings) != 1 || gotBookings[0].Status != models.BookingPending {
		t.Errorf("cached bookings = %v", gotBookings)
	}
	if gotBookings[0].DateRange.Nights() != 2 {
		t.Errorf("cached booking nights = %d, want 2", gotBookings[0].DateRange.Nights())
	}
}

func TestSyncTimesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	stamp := time.Date(2026, time.August, 31, 9, 30, 0, 0, time.UTC)
	if err := s.SetLastSync(SyncTypeBookings, stamp); err != nil {
		t.Fatalf("SetLastSync: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got := reopened.GetLastSync(SyncTypeBookings)
	if !got.Equal(stamp) {
		t.Errorf("reloaded sync time = %v, want %v", got, stamp)
	}
}
