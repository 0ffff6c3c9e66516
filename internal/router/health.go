package router

import (
	"sync"
	"time"
)

// HealthTracker keeps one circuit breaker per upstream provider, created
// on first use so providers added by a config reload are picked up
// without restart.
type HealthTracker struct {
	mu       sync.Mutex
	breakers map[string]*Breaker

	failureThreshold      int
	recoveryProbeInterval time.Duration
}

func NewHealthTracker(failureThreshold int, recoveryProbeInterval time.Duration) *HealthTracker {
	return &HealthTracker{
		breakers:              make(map[string]*Breaker),
		failureThreshold:      failureThreshold,
		recoveryProbeInterval: recoveryProbeInterval,
	}
}

func (ht *HealthTracker) breakerFor(provider string) *Breaker {
	ht.mu.Lock()
	defer ht.mu.Unlock()
	b, ok := ht.breakers[provider]
	if !ok {
		b = NewBreaker(ht.failureThreshold, ht.recoveryProbeInterval)
		ht.breakers[provider] = b
	}
	return b
}

// IsAvailable reports whether the provider's breaker admits requests.
func (ht *HealthTracker) IsAvailable(provider string) bool {
	return ht.breakerFor(provider).Allow()
}

func (ht *HealthTracker) RecordSuccess(provider string) {
	ht.breakerFor(provider).RecordSuccess()
}

func (ht *HealthTracker) RecordFailure(provider string) {
	ht.breakerFor(provider).RecordFailure()
}
