// Package notify sends operator alerts to a Gotify server.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Alert priorities used by the bot.
const (
	PriorityWarning = 5
	PriorityError   = 8
)

// NotifyFunc delivers one alert.
type NotifyFunc func(ctx context.Context, title, message string, priority int) error

// Gotify posts messages to a Gotify server. Alerts beyond one per 10 seconds
// (burst 3) are dropped so a panicking handler cannot flood the operator.
type Gotify struct {
	URL     string
	Token   string
	HTTP    *http.Client
	limiter *rate.Limiter
}

// NewGotify returns a Gotify sender, or nil when url or token is empty.
func NewGotify(serverURL, token string) *Gotify {
	if serverURL == "" || token == "" {
		return nil
	}
	return &Gotify{
		URL:     strings.TrimRight(serverURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 3),
	}
}

// Send posts one message. Dropped (rate limited) alerts return nil.
func (g *Gotify) Send(ctx context.Context, title, message string, priority int) error {
	if g.limiter != nil && !g.limiter.Allow() {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"title":    title,
		"message":  message,
		"priority": priority,
	})
	if err != nil {
		return fmt.Errorf("gotify: marshal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL+"/message", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gotify: create request failed: %w", err)
	}
	req.Header.Set("X-Gotify-Token", g.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("gotify: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gotify: server returned %d", resp.StatusCode)
	}
	return nil
}

// BuildNotifier returns a NotifyFunc wired to the given Gotify server.
// Returns nil (disabling alerts) if url or token are empty.
func BuildNotifier(serverURL, token string) NotifyFunc {
	g := NewGotify(serverURL, token)
	if g == nil {
		return nil
	}
	return g.Send
}
