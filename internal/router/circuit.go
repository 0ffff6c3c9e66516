package router

import (
	"sync"
	"time"
)

// BreakerState is the lifecycle state of an upstream circuit breaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerProbing
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerProbing:
		return "probing"
	default:
		return "unknown"
	}
}

// Breaker trips after a run of consecutive failures and lets a probe
// through once the recovery interval has elapsed. A successful probe
// closes it again; a failed probe reopens it.
type Breaker struct {
	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time

	failureThreshold      int
	recoveryProbeInterval time.Duration
}

func NewBreaker(failureThreshold int, recoveryProbeInterval time.Duration) *Breaker {
	return &Breaker{
		state:                 BreakerClosed,
		failureThreshold:      failureThreshold,
		recoveryProbeInterval: recoveryProbeInterval,
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// currentState moves open to probing once the recovery interval has
// passed. Callers must hold mu.
func (b *Breaker) currentState() BreakerState {
	if b.state == BreakerOpen && time.Since(b.openedAt) >= b.recoveryProbeInterval {
		b.state = BreakerProbing
	}
	return b.state
}

// Allow reports whether a request may be sent upstream right now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState() != BreakerOpen
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerProbing {
		b.state = BreakerClosed
	}
	b.failures = 0
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	switch b.state {
	case BreakerClosed:
		if b.failures >= b.failureThreshold {
			b.state = BreakerOpen
			b.openedAt = time.Now()
		}
	case BreakerProbing:
		b.state = BreakerOpen
		b.openedAt = time.Now()
	}
}
