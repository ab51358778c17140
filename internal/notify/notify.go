// Package notify delivers booking notification events to user-facing
// channels: the terminal and an optional webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"staymate/internal/config"
	"staymate/internal/models"
	"staymate/internal/resilience"
)

// Notifier defines the interface for delivering notification events.
type Notifier interface {
	Send(ctx context.Context, event models.NotificationEvent) error
}

// Channel defines a single delivery channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, event models.NotificationEvent) error
	IsEnabled() bool
}

// Level represents the notification level filter.
type Level string

const (
	LevelAll          Level = "all"
	LevelRequestsOnly Level = "requests_only"
	LevelNone         Level = "none"
)

// MultiNotifier fans an event out to every enabled channel.
type MultiNotifier struct {
	channels []Channel
	level    Level
	mu       sync.RWMutex
}

// NewMultiNotifier creates a MultiNotifier from configuration.
func NewMultiNotifier(cfg config.NotificationConfig) *MultiNotifier {
	mn := &MultiNotifier{
		channels: make([]Channel, 0),
		level:    Level(cfg.Level),
	}

	if mn.level == "" {
		mn.level = LevelAll
	}

	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookChannel(cfg.Webhook))
	}

	return mn
}

// AddChannel adds a delivery channel.
func (mn *MultiNotifier) AddChannel(ch Channel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// shouldSend checks if an event passes the level filter.
func (mn *MultiNotifier) shouldSend(kind models.EventKind) bool {
	switch mn.level {
	case LevelNone:
		return false
	case LevelRequestsOnly:
		return kind == models.EventBookingRequest
	default:
		return true
	}
}

// Send delivers the event to all enabled channels.
func (mn *MultiNotifier) Send(ctx context.Context, event models.NotificationEvent) error {
	if !mn.shouldSend(event.Kind) {
		return nil
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var errs []string
	for _, ch := range channels {
		if ch.IsEnabled() {
			if err := ch.Send(ctx, event); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// WebhookChannel delivers events as JSON POSTs to a configured URL. A
// circuit breaker guards the endpoint so a dead webhook stops being hit on
// every poll cycle.
type WebhookChannel struct {
	url     string
	enabled bool
	client  *http.Client
	breaker *resilience.Breaker
}

// NewWebhookChannel creates a webhook channel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	return &WebhookChannel{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: resilience.NewBreaker("webhook", resilience.DefaultBreakerConfig()),
	}
}

// Name returns the name of the channel.
func (w *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled reports whether the channel is configured.
func (w *WebhookChannel) IsEnabled() bool {
	return w.enabled
}

// Send posts the event to the webhook URL.
func (w *WebhookChannel) Send(ctx context.Context, event models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	return w.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.client.Do(req)
		if err != nil {
			return fmt.Errorf("send webhook: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
}
