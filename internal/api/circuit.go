package api

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and has not yet
// reached the half-open recovery window.
var ErrCircuitOpen = errors.New("circuit breaker open: upstream is unavailable, backing off")

type circuitState int

const (
	circuitClosed   circuitState = iota // requests flow
	circuitOpen                         // upstream failing, requests rejected
	circuitHalfOpen                     // one probe in flight decides the state
)

func (s circuitState) String() string {
	switch s {
	case circuitClosed:
		return "closed"
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker trips open after threshold consecutive upstream failures
// (HTTP 429 or 5xx), stays open for resetTimeout, then lets a single probe
// through. Other requests are rejected while the probe is outstanding.
// Safe for concurrent use.
type CircuitBreaker struct {
	mu           sync.Mutex
	state        circuitState
	consecutive  int
	threshold    int
	resetTimeout time.Duration
	openedAt     time.Time
	probing      bool
	now          func() time.Time
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(threshold int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:        circuitClosed,
		threshold:    threshold,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
}

// Allow returns the current state and whether the request should proceed.
func (cb *CircuitBreaker) Allow() (circuitState, bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitClosed:
		return circuitClosed, true
	case circuitOpen:
		if cb.now().Sub(cb.openedAt) >= cb.resetTimeout {
			cb.state = circuitHalfOpen
			cb.probing = true
			return circuitHalfOpen, true
		}
		return circuitOpen, false
	case circuitHalfOpen:
		if cb.probing {
			return circuitHalfOpen, false
		}
		cb.probing = true
		return circuitHalfOpen, true
	}
	return cb.state, false
}

// RecordSuccess closes the circuit and returns the previous state.
func (cb *CircuitBreaker) RecordSuccess() (prev circuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	prev = cb.state
	cb.consecutive = 0
	cb.state = circuitClosed
	cb.probing = false
	return prev
}

// Release ends an admitted request that gave no verdict on the upstream,
// such as a network error, so the next request may probe.
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false
}

// RecordFailure counts a failure and returns the resulting state.
// A failed half-open probe reopens the circuit immediately.
func (cb *CircuitBreaker) RecordFailure() (newState circuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.consecutive++
	cb.probing = false
	if cb.state == circuitHalfOpen || cb.consecutive >= cb.threshold {
		cb.state = circuitOpen
		cb.openedAt = cb.now()
	}
	return cb.state
}

// State returns the current circuit state without side effects.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state.String()
}
