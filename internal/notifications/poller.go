package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"staymate/internal/logging"
	"staymate/internal/models"
)

// BookingSource supplies the current booking snapshot, normally the REST
// client.
type BookingSource interface {
	GetBookings(ctx context.Context) ([]models.Booking, error)
}

// SnapshotStore persists the last-seen status map between runs, so a restart
// does not replay booking_request events for bookings already seen.
type SnapshotStore interface {
	LoadBookingStatuses(ctx context.Context) (StatusMap, error)
	SaveBookingStatuses(ctx context.Context, statuses StatusMap) error
}

// PollerConfig holds poller settings.
type PollerConfig struct {
	// Interval between poll cycles.
	Interval time.Duration
	// Viewer routes events to the current user. A zero viewer drops
	// everything.
	Viewer ViewerContext
}

// Poller re-fetches the booking set on a fixed interval, diffs it against
// the last-seen statuses and delivers the resulting events. Ticks are fully
// sequential: a cycle runs fetch, diff, persist, publish to completion
// before the next one can start, and a failed fetch simply skips the cycle.
type Poller struct {
	source    BookingSource
	snapshots SnapshotStore
	hub       *Hub
	inbox     *Inbox
	logger    zerolog.Logger
	config    PollerConfig

	last StatusMap
}

// NewPoller creates a poller. snapshots may be nil, in which case the
// last-seen map lives only in memory.
func NewPoller(source BookingSource, snapshots SnapshotStore, hub *Hub, inbox *Inbox, logger zerolog.Logger, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &Poller{
		source:    source,
		snapshots: snapshots,
		hub:       hub,
		inbox:     inbox,
		logger:    logging.WithOperation(logger, "poll"),
		config:    cfg,
		last:      make(StatusMap),
	}
}

// Run polls until the context is cancelled. The first cycle runs
// immediately, then one cycle per interval. Always returns nil after
// teardown; poll failures are logged, never fatal.
func (p *Poller) Run(ctx context.Context) error {
	if p.snapshots != nil {
		if loaded, err := p.snapshots.LoadBookingStatuses(ctx); err != nil {
			p.logger.Warn().Err(err).Msg("Could not load booking snapshot, starting fresh")
		} else if loaded != nil {
			p.last = loaded
		}
	}

	p.tick(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// Tick runs a single poll cycle and returns the events delivered to the
// viewer. Exposed for one-shot refreshes outside the Run loop.
func (p *Poller) Tick(ctx context.Context) []models.NotificationEvent {
	return p.tick(ctx)
}

func (p *Poller) tick(ctx context.Context) []models.NotificationEvent {
	cycleID := uuid.NewString()
	start := time.Now()

	bookings, err := p.source.GetBookings(ctx)
	if err != nil {
		// Best-effort refresh: skip this cycle, the next one resumes
		// normal operation.
		logging.LogPollCycle(p.logger, cycleID, 0, 0, time.Since(start), err)
		return nil
	}

	result := Diff(p.last, bookings, time.Now())

	if p.snapshots != nil {
		if err := p.snapshots.SaveBookingStatuses(ctx, result.Next); err != nil {
			// Keep the old map; the same transitions will be re-derived
			// next cycle instead of being lost.
			logging.LogPollCycle(p.logger, cycleID, len(bookings), 0, time.Since(start), err)
			return nil
		}
	}
	p.last = result.Next

	relevant := p.config.Viewer.FilterRelevant(result.Events)

	if p.inbox != nil {
		p.inbox.Add(relevant...)
	}
	if p.hub != nil {
		for _, event := range relevant {
			p.hub.Publish(event)
		}
	}

	logging.LogPollCycle(p.logger, cycleID, len(bookings), len(relevant), time.Since(start), nil)
	return relevant
}
