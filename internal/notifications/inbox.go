package notifications

import (
	"sync"

	"staymate/internal/models"
)

// Inbox is an in-memory notification list, newest first. Notifications stay
// until the user clears them; marking read never removes anything.
type Inbox struct {
	mu     sync.RWMutex
	events []models.NotificationEvent
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Add prepends events to the inbox, newest first.
func (in *Inbox) Add(events ...models.NotificationEvent) {
	if len(events) == 0 {
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	in.events = append(append([]models.NotificationEvent{}, events...), in.events...)
}

// All returns a copy of the inbox contents.
func (in *Inbox) All() []models.NotificationEvent {
	in.mu.RLock()
	defer in.mu.RUnlock()

	out := make([]models.NotificationEvent, len(in.events))
	copy(out, in.events)
	return out
}

// MarkRead marks a single notification as read. Returns false when the ID is
// unknown.
func (in *Inbox) MarkRead(id string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i := range in.events {
		if in.events[i].ID == id {
			in.events[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead marks every notification as read.
func (in *Inbox) MarkAllRead() {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i := range in.events {
		in.events[i].Read = true
	}
}

// ClearAll removes every notification.
func (in *Inbox) ClearAll() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.events = nil
}

// UnreadCount returns the number of unread notifications.
func (in *Inbox) UnreadCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	count := 0
	for _, event := range in.events {
		if !event.Read {
			count++
		}
	}
	return count
}
