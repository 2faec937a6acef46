package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RequestObserver receives one call per completed upstream request.
// status is 0 for network errors and circuit rejections.
type RequestObserver interface {
	ObserveRequest(service, label string, status int, d time.Duration)
}

// Gateway is the single path for every outbound call to one upstream
// service. It enforces, in order:
//  1. Rate limiting   - token bucket
//  2. Circuit breaker - rejects immediately when open; logs state transitions
//  3. HTTP execution  - with context cancellation
//  4. Structured logging of every request, wait, rejection and state change
//
// There are no retries: a failed request is returned to the caller as is.
type Gateway struct {
	Service  string
	HTTP     *http.Client
	Limiter  *rate.Limiter
	Breaker  *CircuitBreaker
	Observer RequestObserver
	// Scrub, when set, rewrites transport errors before they are logged
	// or returned, e.g. to remove credentials embedded in request URLs.
	Scrub    func(error) error
}

// NewGateway returns a gateway limited to rps requests per second with the
// given burst. The circuit trips after 5 consecutive 429/5xx responses and
// stays open for 60 seconds.
func NewGateway(service string, httpClient *http.Client, rps float64, burst int) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Gateway{
		Service: service,
		HTTP:    httpClient,
		Limiter: rate.NewLimiter(rate.Limit(rps), burst),
		Breaker: NewCircuitBreaker(5, 60*time.Second),
	}
}

// Do executes one request built by makeReq. label is a short endpoint name
// used in log entries (e.g. "catalog.search"). The caller closes the body.
func (g *Gateway) Do(ctx context.Context, label string, makeReq func() (*http.Request, error)) (*http.Response, error) {
	waitStart := time.Now()
	if err := g.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter cancelled for %s: %w", label, err)
	}
	// Only log if we actually waited (> 1ms threshold avoids noise).
	if waited := time.Since(waitStart); waited > time.Millisecond {
		LogRateLimitWait(label, waited)
	}

	cbState, allowed := g.Breaker.Allow()
	if !allowed {
		LogCircuitRejected(g.Service, label)
		g.observe(label, 0, 0)
		return nil, fmt.Errorf("%w (label: %s)", ErrCircuitOpen, label)
	}

	req, err := makeReq()
	if err != nil {
		g.Breaker.Release()
		return nil, err
	}
	start := time.Now()
	resp, err := g.HTTP.Do(req)
	duration := time.Since(start)

	if err != nil {
		if g.Scrub != nil {
			err = g.Scrub(err)
		}
		// Network errors do not trip the breaker.
		g.Breaker.Release()
		LogRequest(label, 0, duration, cbState.String(), err)
		g.observe(label, 0, duration)
		return nil, err
	}
	g.observe(label, resp.StatusCode, duration)

	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
		prev := g.Breaker.RecordSuccess()
		if prev != circuitClosed {
			LogCircuitStateChange("circuit_closed", label, prev.String(), circuitClosed.String())
		}
		LogRequest(label, resp.StatusCode, duration, circuitClosed.String(), nil)
		return resp, nil
	}

	newState := g.Breaker.RecordFailure()
	if newState == circuitOpen && cbState != circuitOpen {
		LogCircuitStateChange("circuit_opened", label, cbState.String(), newState.String())
	}
	LogRequest(label, resp.StatusCode, duration, newState.String(), fmt.Errorf("HTTP %s", resp.Status))
	return resp, nil
}

func (g *Gateway) observe(label string, status int, d time.Duration) {
	if g.Observer != nil {
		g.Observer.ObserveRequest(g.Service, label, status, d)
	}
}

// WithHTTP returns a gateway that sends through c but shares this
// gateway's limiter, breaker and observer.
func (g *Gateway) WithHTTP(c *http.Client) *Gateway {
	cp := *g
	cp.HTTP = c
	return &cp
}
