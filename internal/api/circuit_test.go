package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestCircuitBreakerLifecycle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	if _, ok := cb.Allow(); !ok {
		t.Fatal("one failure should not open the circuit")
	}
	if st := cb.RecordFailure(); st != circuitOpen {
		t.Fatalf("state = %s, want open", st)
	}
	if _, ok := cb.Allow(); ok {
		t.Fatal("open circuit allowed a request")
	}

	now = now.Add(time.Minute)
	st, ok := cb.Allow()
	if !ok || st != circuitHalfOpen {
		t.Fatalf("Allow() = %s, %v; want half-open, true", st, ok)
	}
	if st := cb.RecordFailure(); st != circuitOpen {
		t.Fatalf("failed probe should reopen, got %s", st)
	}

	now = now.Add(time.Minute)
	cb.Allow()
	if prev := cb.RecordSuccess(); prev != circuitHalfOpen {
		t.Fatalf("prev = %s, want half-open", prev)
	}
	if cb.State() != "closed" {
		t.Fatalf("state = %s, want closed", cb.State())
	}
}

func TestHalfOpenAdmitsOneProbe(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := NewCircuitBreaker(1, time.Minute)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(time.Minute)

	if _, ok := cb.Allow(); !ok {
		t.Fatal("first request after the reset window should probe")
	}
	if st, ok := cb.Allow(); ok || st != circuitHalfOpen {
		t.Fatalf("second request during probe: Allow() = %s, %v; want half-open, false", st, ok)
	}

	// A probe that ends without a verdict frees the slot.
	cb.Release()
	if _, ok := cb.Allow(); !ok {
		t.Fatal("released probe slot was not reusable")
	}
	cb.RecordSuccess()
	for i := 0; i < 3; i++ {
		if _, ok := cb.Allow(); !ok {
			t.Fatal("closed circuit rejected a request")
		}
	}
}

func TestGatewayNetworkErrorReleasesProbe(t *testing.T) {
	SetAPILogWriter(nil)
	now := time.Unix(1_700_000_000, 0)
	g := NewGateway("catalog", &http.Client{Timeout: time.Second}, 100, 10)
	g.Breaker = NewCircuitBreaker(1, time.Minute)
	g.Breaker.now = func() time.Time { return now }
	g.Breaker.RecordFailure()
	now = now.Add(time.Minute)

	makeReq := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, "http://127.0.0.1:1/unreachable", nil)
	}
	for i := 0; i < 2; i++ {
		_, err := g.Do(context.Background(), "catalog.track", makeReq)
		if err == nil {
			t.Fatalf("call %d: expected network error", i)
		}
		if errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("call %d: probe slot leaked after a network error", i)
		}
	}
}
