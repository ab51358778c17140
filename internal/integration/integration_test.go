// Package integration provides end-to-end tests of the notification
// pipeline: poll, diff, persist, fan out.
package integration

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"staymate/internal/models"
	"staymate/internal/notifications"
	"staymate/internal/store"
)

// fakeSource serves scripted booking snapshots, one per call.
type fakeSource struct {
	mu        sync.Mutex
	snapshots [][]models.Booking
	errs      []error
	calls     int
}

func (f *fakeSource) GetBookings(ctx context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.snapshots) {
		i = len(f.snapshots) - 1
	}
	return f.snapshots[i], nil
}

func booking(id, listingID, owner string, status models.BookingStatus) models.Booking {
	return models.Booking{
		ID:         id,
		ListingID:  listingID,
		Owner:      owner,
		DateRange:  models.MustRange("2026-09-01", "2026-09-05"),
		TotalPrice: 400,
		Status:     status,
	}
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "staymate.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestPollPersistNotifyFlow drives the poller through a full booking
// lifecycle and checks that events come out of the hub, land in the inbox
// and that the status snapshot survives in SQLite.
func TestPollPersistNotifyFlow(t *testing.T) {
	ctx := context.Background()
	dataStore := newTestStore(t)

	host := "host@example.com"
	listing := models.Listing{ID: "l1", Title: "Beach house", Owner: host, Price: 100, Published: true}
	viewer := notifications.NewViewerContext(host, []models.Listing{listing})

	source := &fakeSource{
		snapshots: [][]models.Booking{
			{booking("b1", "l1", "guest@example.com", models.BookingPending)},
			{booking("b1", "l1", "guest@example.com", models.BookingAccepted)},
		},
	}

	hub := notifications.NewHub()
	defer hub.Close()
	inbox := notifications.NewInbox()

	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	poller := notifications.NewPoller(source, dataStore, hub, inbox, zerolog.Nop(), notifications.PollerConfig{
		Interval: time.Hour,
		Viewer:   viewer,
	})

	// Cycle 1: a new pending booking on the host's listing.
	delivered := poller.Tick(ctx)
	if len(delivered) != 1 {
		t.Fatalf("cycle 1: got %d events, want 1", len(delivered))
	}
	if delivered[0].Kind != models.EventBookingRequest {
		t.Errorf("cycle 1: kind = %s, want %s", delivered[0].Kind, models.EventBookingRequest)
	}
	if delivered[0].ID != "b1-new" {
		t.Errorf("cycle 1: event ID = %q, want %q", delivered[0].ID, "b1-new")
	}

	select {
	case got := <-events:
		if got.ID != "b1-new" {
			t.Errorf("hub delivered %q, want %q", got.ID, "b1-new")
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not deliver the request event")
	}

	// Cycle 2: the host accepting is the guest's notification, not the
	// host's, so nothing reaches this viewer.
	delivered = poller.Tick(ctx)
	if len(delivered) != 0 {
		t.Fatalf("cycle 2: got %d events, want 0", len(delivered))
	}

	// The snapshot in SQLite must reflect the final state.
	statuses, err := dataStore.LoadBookingStatuses(ctx)
	if err != nil {
		t.Fatalf("LoadBookingStatuses: %v", err)
	}
	if statuses["b1"] != models.BookingAccepted {
		t.Errorf("persisted status = %s, want %s", statuses["b1"], models.BookingAccepted)
	}

	if inbox.UnreadCount() != 1 {
		t.Errorf("inbox unread = %d, want 1", inbox.UnreadCount())
	}
}

// TestPollSkipsFailedFetch checks that a failed fetch skips the cycle
// without touching the last-seen map, so the transition is picked up on the
// next successful cycle.
func TestPollSkipsFailedFetch(t *testing.T) {
	ctx := context.Background()
	dataStore := newTestStore(t)

	guest := "guest@example.com"
	viewer := notifications.ViewerContext{Email: guest, ListingIDs: map[string]bool{}}

	source := &fakeSource{
		snapshots: [][]models.Booking{
			{booking("b1", "l1", guest, models.BookingPending)},
			nil,
			{booking("b1", "l1", guest, models.BookingDeclined)},
		},
		errs: []error{nil, errors.New("connection refused")},
	}

	poller := notifications.NewPoller(source, dataStore, nil, nil, zerolog.Nop(), notifications.PollerConfig{
		Interval: time.Hour,
		Viewer:   viewer,
	})

	// The guest is not the listing owner, so the initial request event is
	// not theirs.
	if got := poller.Tick(ctx); len(got) != 0 {
		t.Fatalf("cycle 1: got %d events, want 0", len(got))
	}

	// Cycle 2 fails; nothing is emitted and the snapshot stays pending.
	if got := poller.Tick(ctx); got != nil {
		t.Fatalf("cycle 2: got %v, want nil", got)
	}
	statuses, err := dataStore.LoadBookingStatuses(ctx)
	if err != nil {
		t.Fatalf("LoadBookingStatuses: %v", err)
	}
	if statuses["b1"] != models.BookingPending {
		t.Errorf("after failed cycle, status = %s, want %s", statuses["b1"], models.BookingPending)
	}

	// Cycle 3 sees the decline and notifies the guest.
	got := poller.Tick(ctx)
	if len(got) != 1 {
		t.Fatalf("cycle 3: got %d events, want 1", len(got))
	}
	if got[0].Kind != models.EventBookingDeclined {
		t.Errorf("cycle 3: kind = %s, want %s", got[0].Kind, models.EventBookingDeclined)
	}
	if got[0].ID != "b1-declined" {
		t.Errorf("cycle 3: event ID = %q, want %q", got[0].ID, "b1-declined")
	}
}

// TestSnapshotSurvivesRestart checks that a fresh poller loading the stored
// snapshot does not replay request events for bookings it has already seen.
func TestSnapshotSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dataStore := newTestStore(t)

	host := "host@example.com"
	listing := models.Listing{ID: "l1", Owner: host, Published: true}
	viewer := notifications.NewViewerContext(host, []models.Listing{listing})

	pending := []models.Booking{booking("b1", "l1", "guest@example.com", models.BookingPending)}

	first := notifications.NewPoller(&fakeSource{snapshots: [][]models.Booking{pending}}, dataStore, nil, nil, zerolog.Nop(), notifications.PollerConfig{
		Interval: time.Hour,
		Viewer:   viewer,
	})
	if got := first.Tick(ctx); len(got) != 1 {
		t.Fatalf("first run: got %d events, want 1", len(got))
	}

	// Simulate a restart: a new poller over the same store must treat b1
	// as already seen. Run drives one immediate tick before waiting on the
	// ticker, so a cancelled-after-a-beat context gives exactly one cycle.
	inbox := notifications.NewInbox()
	second := notifications.NewPoller(&fakeSource{snapshots: [][]models.Booking{pending}}, dataStore, nil, inbox, zerolog.Nop(), notifications.PollerConfig{
		Interval: time.Hour,
		Viewer:   viewer,
	})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- second.Run(runCtx) }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancel")
	}

	if got := inbox.All(); len(got) != 0 {
		t.Errorf("restart replayed %d events, want 0", len(got))
	}
}
