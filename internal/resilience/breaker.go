// Package resilience provides failure-handling primitives for outbound
// calls, currently a circuit breaker used by the webhook notification
// channel.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of a circuit breaker.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// ErrOpen is returned when the breaker rejects a call.
var ErrOpen = errors.New("circuit breaker is open")

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold int
	// SuccessThreshold is the number of successes in half-open state
	// needed to close it again.
	SuccessThreshold int
	// Cooldown is how long an open breaker rejects calls before probing.
	Cooldown time.Duration
}

// DefaultBreakerConfig returns sensible defaults for a notification
// endpoint: trip after three straight failures, probe again after a minute.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Cooldown:         time.Minute,
	}
}

// Breaker is a circuit breaker for a single downstream endpoint. Calls are
// wrapped with Do; while the breaker is open they fail fast with ErrOpen
// instead of hitting the endpoint.
type Breaker struct {
	name   string
	config BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time

	totalCalls    int64
	totalFailures int64
	totalRejected int64
}

// NewBreaker creates a breaker with the given name and configuration.
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultBreakerConfig().SuccessThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBreakerConfig().Cooldown
	}
	return &Breaker{
		name:   name,
		config: cfg,
		state:  StateClosed,
	}
}

// Do runs fn under the breaker. An open breaker returns ErrOpen without
// calling fn.
func (b *Breaker) Do(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalCalls++

	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailure) >= b.config.Cooldown {
			b.transition(StateHalfOpen)
			return nil
		}
		b.totalRejected++
		return ErrOpen
	default:
		return nil
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.transition(StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalFailures++
	b.lastFailure = time.Now()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		// A failed probe reopens immediately.
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(state State) {
	b.state = state
	b.failures = 0
	b.successes = 0
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.name
}

// Stats holds cumulative breaker counters.
type Stats struct {
	Name     string
	State    State
	Calls    int64
	Failures int64
	Rejected int64
}

// Stats returns a snapshot of the breaker counters.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Name:     b.name,
		State:    b.state,
		Calls:    b.totalCalls,
		Failures: b.totalFailures,
		Rejected: b.totalRejected,
	}
}

// Reset closes the breaker and clears its consecutive counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
}
