package notifications

import (
	"sync"
	"time"

	"staymate/internal/models"
)

// HubConfig holds configuration for the notification hub.
type HubConfig struct {
	// SubscriberBufferSize is the size of each subscriber's channel buffer.
	SubscriberBufferSize int
	// PublishTimeout is the maximum time to wait when sending to a subscriber.
	PublishTimeout time.Duration
}

// DefaultHubConfig returns the default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		SubscriberBufferSize: 32,
		PublishTimeout:       10 * time.Millisecond,
	}
}

// Hub fans notification events out to multiple consumers. A slow consumer
// has events dropped rather than blocking the poll loop.
type Hub struct {
	config      HubConfig
	mu          sync.RWMutex
	subscribers map[int]*subscriber
	nextID      int
	closed      bool

	published uint64
	dropped   uint64
}

type subscriber struct {
	id      int
	channel chan models.NotificationEvent
}

// NewHub creates a hub with default configuration.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates a hub with custom configuration.
func NewHubWithConfig(config HubConfig) *Hub {
	return &Hub{
		config:      config,
		subscribers: make(map[int]*subscriber),
	}
}

// Subscribe registers a consumer and returns its event channel together
// with an unsubscribe function. The channel is closed on unsubscribe and on
// hub close.
func (h *Hub) Subscribe() (<-chan models.NotificationEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan models.NotificationEvent)
		close(ch)
		return ch, func() {}
	}

	sub := &subscriber{
		id:      h.nextID,
		channel: make(chan models.NotificationEvent, h.config.SubscriberBufferSize),
	}
	h.nextID++
	h.subscribers[sub.id] = sub

	return sub.channel, func() { h.unsubscribe(sub.id) }
}

func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(sub.channel)
	}
}

// Publish delivers an event to every subscriber. Events to subscribers whose
// buffers stay full past the publish timeout are dropped.
func (h *Hub) Publish(event models.NotificationEvent) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	closed := h.closed
	h.mu.RUnlock()

	if closed {
		return
	}

	for _, sub := range subs {
		select {
		case sub.channel <- event:
			h.mu.Lock()
			h.published++
			h.mu.Unlock()
		default:
			timer := time.NewTimer(h.config.PublishTimeout)
			select {
			case sub.channel <- event:
				h.mu.Lock()
				h.published++
				h.mu.Unlock()
			case <-timer.C:
				h.mu.Lock()
				h.dropped++
				h.mu.Unlock()
			}
			timer.Stop()
		}
	}
}

// Stats returns the number of delivered and dropped events.
func (h *Hub) Stats() (published, dropped uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.published, h.dropped
}

// Close shuts the hub down and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, sub := range h.subscribers {
		delete(h.subscribers, id)
		close(sub.channel)
	}
}
