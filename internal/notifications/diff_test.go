package notifications

import (
	"testing"
	"time"

	"staymate/internal/models"
)

func snapshotBooking(id, listingID, owner string, status models.BookingStatus) models.Booking {
	return models.Booking{
		ID:         id,
		ListingID:  listingID,
		Owner:      owner,
		DateRange:  models.MustRange("2026-09-01", "2026-09-05"),
		TotalPrice: 400,
		Status:     status,
	}
}

func TestDiffTransitions(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		prev     StatusMap
		current  []models.Booking
		wantIDs  []string
		wantKind []models.EventKind
	}{
		{
			name:     "new pending booking raises a request",
			prev:     StatusMap{},
			current:  []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingPending)},
			wantIDs:  []string{"b1-new"},
			wantKind: []models.EventKind{models.EventBookingRequest},
		},
		{
			name:     "pending to accepted raises an acceptance",
			prev:     StatusMap{"b1": models.BookingPending},
			current:  []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingAccepted)},
			wantIDs:  []string{"b1-accepted"},
			wantKind: []models.EventKind{models.EventBookingAccepted},
		},
		{
			name:     "pending to declined raises a decline",
			prev:     StatusMap{"b1": models.BookingPending},
			current:  []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingDeclined)},
			wantIDs:  []string{"b1-declined"},
			wantKind: []models.EventKind{models.EventBookingDeclined},
		},
		{
			name:    "booking first seen accepted is silent",
			prev:    StatusMap{},
			current: []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingAccepted)},
		},
		{
			name:    "booking first seen declined is silent",
			prev:    StatusMap{},
			current: []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingDeclined)},
		},
		{
			name:    "unchanged pending is silent",
			prev:    StatusMap{"b1": models.BookingPending},
			current: []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingPending)},
		},
		{
			name:    "accepted repeated across polls is silent",
			prev:    StatusMap{"b1": models.BookingAccepted},
			current: []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingAccepted)},
		},
		{
			name: "mixed snapshot emits one event per transition",
			prev: StatusMap{"b1": models.BookingPending, "b2": models.BookingPending},
			current: []models.Booking{
				snapshotBooking("b1", "l1", "g@x.com", models.BookingAccepted),
				snapshotBooking("b2", "l1", "g@x.com", models.BookingDeclined),
				snapshotBooking("b3", "l2", "h@x.com", models.BookingPending),
			},
			wantIDs:  []string{"b1-accepted", "b2-declined", "b3-new"},
			wantKind: []models.EventKind{models.EventBookingAccepted, models.EventBookingDeclined, models.EventBookingRequest},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Diff(tc.prev, tc.current, now)

			if len(result.Events) != len(tc.wantIDs) {
				t.Fatalf("got %d events, want %d", len(result.Events), len(tc.wantIDs))
			}
			for i, event := range result.Events {
				if event.ID != tc.wantIDs[i] {
					t.Errorf("event %d ID = %q, want %q", i, event.ID, tc.wantIDs[i])
				}
				if event.Kind != tc.wantKind[i] {
					t.Errorf("event %d kind = %s, want %s", i, event.Kind, tc.wantKind[i])
				}
				if !event.Timestamp.Equal(now) {
					t.Errorf("event %d timestamp = %v, want %v", i, event.Timestamp, now)
				}
			}
		})
	}
}

func TestDiffMessages(t *testing.T) {
	now := time.Now()

	result := Diff(StatusMap{}, []models.Booking{snapshotBooking("b1", "l7", "g@x.com", models.BookingPending)}, now)
	if got := result.Events[0].Message; got != "New booking request for listing l7" {
		t.Errorf("request message = %q", got)
	}

	result = Diff(StatusMap{"b1": models.BookingPending}, []models.Booking{snapshotBooking("b1", "l7", "g@x.com", models.BookingAccepted)}, now)
	if got := result.Events[0].Message; got != "Your booking request has been accepted!" {
		t.Errorf("accepted message = %q", got)
	}

	result = Diff(StatusMap{"b1": models.BookingPending}, []models.Booking{snapshotBooking("b1", "l7", "g@x.com", models.BookingDeclined)}, now)
	if got := result.Events[0].Message; got != "Your booking request has been declined" {
		t.Errorf("declined message = %q", got)
	}
}

func TestDiffRebuildsMapWholesale(t *testing.T) {
	prev := StatusMap{
		"gone":    models.BookingPending,
		"staying": models.BookingPending,
	}
	result := Diff(prev, []models.Booking{snapshotBooking("staying", "l1", "g@x.com", models.BookingPending)}, time.Now())

	if len(result.Next) != 1 {
		t.Fatalf("next map has %d entries, want 1", len(result.Next))
	}
	if _, ok := result.Next["gone"]; ok {
		t.Error("deleted booking still tracked in next map")
	}
	if result.Next["staying"] != models.BookingPending {
		t.Errorf("next[staying] = %s, want pending", result.Next["staying"])
	}

	// A booking that vanished and comes back pending is new again.
	again := Diff(result.Next, []models.Booking{
		snapshotBooking("staying", "l1", "g@x.com", models.BookingPending),
		snapshotBooking("gone", "l1", "g@x.com", models.BookingPending),
	}, time.Now())
	if len(again.Events) != 1 || again.Events[0].ID != "gone-new" {
		t.Errorf("reappeared booking events = %v, want one gone-new", again.Events)
	}
}

func TestDiffNilPrev(t *testing.T) {
	result := Diff(nil, []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingPending)}, time.Now())
	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}
	if result.Next == nil {
		t.Fatal("next map is nil")
	}
}

func TestDiffDeterministicEventIDs(t *testing.T) {
	first := Diff(StatusMap{}, []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingPending)}, time.Now())
	second := Diff(StatusMap{}, []models.Booking{snapshotBooking("b1", "l1", "g@x.com", models.BookingPending)}, time.Now().Add(time.Hour))

	if first.Events[0].ID != second.Events[0].ID {
		t.Errorf("same transition produced different IDs: %q vs %q", first.Events[0].ID, second.Events[0].ID)
	}
}

func TestViewerContextRouting(t *testing.T) {
	host := "host@x.com"
	guest := "guest@x.com"
	viewer := NewViewerContext(host, []models.Listing{
		{ID: "l1", Owner: host},
		{ID: "l2", Owner: "someone-else@x.com"},
	})

	request := func(listingID, requester string) models.NotificationEvent {
		return models.NotificationEvent{Kind: models.EventBookingRequest, ListingID: listingID, Requester: requester}
	}
	verdict := func(kind models.EventKind, requester string) models.NotificationEvent {
		return models.NotificationEvent{Kind: kind, ListingID: "l9", Requester: requester}
	}

	if !viewer.Relevant(request("l1", guest)) {
		t.Error("request on owned listing should be relevant")
	}
	if viewer.Relevant(request("l2", guest)) {
		t.Error("request on someone else's listing should not be relevant")
	}
	if !viewer.Relevant(verdict(models.EventBookingAccepted, host)) {
		t.Error("acceptance of own request should be relevant")
	}
	if viewer.Relevant(verdict(models.EventBookingAccepted, guest)) {
		t.Error("acceptance of another guest's request should not be relevant")
	}
	if !viewer.Relevant(verdict(models.EventBookingDeclined, host)) {
		t.Error("decline of own request should be relevant")
	}

	filtered := viewer.FilterRelevant([]models.NotificationEvent{
		request("l1", guest),
		request("l2", guest),
		verdict(models.EventBookingDeclined, host),
	})
	if len(filtered) != 2 {
		t.Errorf("FilterRelevant kept %d events, want 2", len(filtered))
	}
}

func TestInbox(t *testing.T) {
	inbox := NewInbox()

	first := models.NotificationEvent{ID: "b1-new"}
	second := models.NotificationEvent{ID: "b2-new"}
	inbox.Add(first)
	inbox.Add(second)

	all := inbox.All()
	if len(all) != 2 {
		t.Fatalf("got %d events, want 2", len(all))
	}
	// Newest first.
	if all[0].ID != "b2-new" {
		t.Errorf("first event = %s, want b2-new", all[0].ID)
	}
	if inbox.UnreadCount() != 2 {
		t.Errorf("unread = %d, want 2", inbox.UnreadCount())
	}

	inbox.MarkRead("b1-new")
	if inbox.UnreadCount() != 1 {
		t.Errorf("after MarkRead, unread = %d, want 1", inbox.UnreadCount())
	}

	inbox.MarkAllRead()
	if inbox.UnreadCount() != 0 {
		t.Errorf("after MarkAllRead, unread = %d, want 0", inbox.UnreadCount())
	}

	inbox.ClearAll()
	if len(inbox.All()) != 0 {
		t.Error("ClearAll left events behind")
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	chA, cancelA := hub.Subscribe()
	chB, cancelB := hub.Subscribe()
	defer cancelA()
	defer cancelB()

	event := models.NotificationEvent{ID: "b1-new"}
	hub.Publish(event)

	for name, ch := range map[string]<-chan models.NotificationEvent{"A": chA, "B": chB} {
		select {
		case got := <-ch:
			if got.ID != event.ID {
				t.Errorf("subscriber %s got %s, want %s", name, got.ID, event.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s received nothing", name)
		}
	}

	cancelA()
	hub.Publish(models.NotificationEvent{ID: "b2-new"})
	select {
	case got := <-chB:
		if got.ID != "b2-new" {
			t.Errorf("subscriber B got %s after unsubscribe of A, want b2-new", got.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber B received nothing after A unsubscribed")
	}

	if _, ok := <-chA; ok {
		t.Error("unsubscribed channel should be closed")
	}
}

func TestHubDropsOnSlowConsumer(t *testing.T) {
	hub := NewHubWithConfig(HubConfig{SubscriberBufferSize: 1, PublishTimeout: time.Millisecond})
	defer hub.Close()

	_, cancel := hub.Subscribe()
	defer cancel()

	// Nobody reads; the second publish must not block.
	done := make(chan struct{})
	go func() {
		hub.Publish(models.NotificationEvent{ID: "e1"})
		hub.Publish(models.NotificationEvent{ID: "e2"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow consumer")
	}

	published, dropped := hub.Stats()
	if published != 1 || dropped != 1 {
		t.Errorf("stats = (%d published, %d dropped), want (1, 1)", published, dropped)
	}
}
