package rpcclient

import (
	"sync"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/metrics"
)

// BreakerState is a circuit breaker state.
type BreakerState int

// Possible breaker states.
const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

// String implements the fmt.Stringer interface.
func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breaker is a per-endpoint circuit breaker. It opens after threshold
// consecutive failures, cools down (doubling the cooldown on every failed
// trial up to maxCooldown) and then lets exactly one trial call through.
type breaker struct {
	mu sync.Mutex

	state         BreakerState
	failures      int
	trialInFlight bool
	openedAt      time.Time
	cooldown      time.Duration

	threshold    int
	baseCooldown time.Duration
	maxCooldown  time.Duration

	mtr metrics.Recorder
	now func() time.Time
}

func newBreaker(threshold int, cooldown, maxCooldown time.Duration, mtr metrics.Recorder) *breaker {
	return &breaker{
		state:        StateClosed,
		cooldown:     cooldown,
		threshold:    threshold,
		baseCooldown: cooldown,
		maxCooldown:  maxCooldown,
		mtr:          mtr,
		now:          time.Now,
	}
}

// Allow checks whether a call may proceed. While open it fails with
// CircuitOpenError without any network activity; once the cooldown elapses
// it admits a single trial and rejects everything else until Success or
// Failure settles the trial.
func (b *breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		left := b.cooldown - b.now().Sub(b.openedAt)
		if left > 0 {
			return &CircuitOpenError{RetryAfter: left}
		}
		b.setState(StateHalfOpen)
		b.trialInFlight = true
		return nil
	default: // StateHalfOpen
		if b.trialInFlight {
			return &CircuitOpenError{RetryAfter: 0}
		}
		b.trialInFlight = true
		return nil
	}
}

// Success reports a successful call, closing the circuit and resetting the
// failure count and cooldown.
func (b *breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.trialInFlight = false
	b.cooldown = b.baseCooldown
	if b.state != StateClosed {
		b.setState(StateClosed)
	}
}

// Failure reports a failed call. In the closed state it counts towards the
// threshold, a failed half-open trial reopens the circuit with a doubled
// cooldown.
func (b *breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.openedAt = b.now()
			b.setState(StateOpen)
		}
	case StateHalfOpen:
		b.trialInFlight = false
		b.cooldown *= 2
		if b.cooldown > b.maxCooldown {
			b.cooldown = b.maxCooldown
		}
		b.openedAt = b.now()
		b.setState(StateOpen)
	case StateOpen:
		// A call admitted before the circuit opened, nothing to count.
	}
}

// State returns the current state.
func (b *breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// setState must be called under b.mu.
func (b *breaker) setState(s BreakerState) {
	b.state = s
	b.mtr.BreakerStateChanged(s.String())
}
