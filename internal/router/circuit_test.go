package router

import (
	"testing"
	"time"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := NewBreaker(3, 5*time.Second)
	if b.State() != BreakerClosed {
		t.Errorf("expected closed, got %s", b.State())
	}
	if !b.Allow() {
		t.Error("expected closed breaker to allow requests")
	}
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b := NewBreaker(3, 5*time.Second)

	b.RecordFailure()
	b.RecordFailure()
	if b.State() != BreakerClosed {
		t.Error("expected closed after 2 of 3 failures")
	}

	b.RecordFailure()
	if b.State() != BreakerOpen {
		t.Errorf("expected open after 3 failures, got %s", b.State())
	}
	if b.Allow() {
		t.Error("expected open breaker to block requests")
	}
}

func TestBreaker_SuccessResetsFailureRun(t *testing.T) {
	b := NewBreaker(2, 5*time.Second)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	if b.State() != BreakerClosed {
		t.Error("expected interleaved success to reset the failure run")
	}
}

func TestBreaker_ProbesAfterRecoveryInterval(t *testing.T) {
	b := NewBreaker(1, 10*time.Millisecond)

	b.RecordFailure()
	if b.State() != BreakerOpen {
		t.Fatal("expected open")
	}

	time.Sleep(15 * time.Millisecond)
	if b.State() != BreakerProbing {
		t.Errorf("expected probing after recovery interval, got %s", b.State())
	}
	if !b.Allow() {
		t.Error("expected probing breaker to allow a probe")
	}
}

func TestBreaker_SuccessfulProbeCloses(t *testing.T) {
	b := NewBreaker(1, 10*time.Millisecond)

	b.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	b.Allow()
	b.RecordSuccess()

	if b.State() != BreakerClosed {
		t.Errorf("expected closed after successful probe, got %s", b.State())
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b := NewBreaker(1, 10*time.Millisecond)

	b.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	b.Allow()
	b.RecordFailure()

	if b.State() != BreakerOpen {
		t.Errorf("expected open after failed probe, got %s", b.State())
	}
	if b.Allow() {
		t.Error("expected reopened breaker to block requests")
	}
}
