package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// APILogEntry is a single structured record written to the API log file.
type APILogEntry struct {
	Timestamp     string `json:"ts"`
	Event         string `json:"event"` // "request", "rate_limit_wait", "circuit_opened", "circuit_closed", "circuit_rejected"
	Service       string `json:"service,omitempty"`
	Label         string `json:"label,omitempty"`
	StatusCode    int    `json:"status_code,omitempty"` // 0 = network error
	DurationMS    int64  `json:"duration_ms,omitempty"`
	RateLimitedMS int64  `json:"rate_limited_ms,omitempty"`
	CircuitState  string `json:"circuit_state,omitempty"`
	Error         string `json:"error,omitempty"`
}

type apiLogger struct {
	mu  sync.Mutex
	enc *json.Encoder
	w   io.Writer
}

// Logger is the package-level API logger. It is nil until InitAPILogger or
// SetAPILogWriter is called; all log functions are no-ops while it is nil.
var Logger *apiLogger

var loggerOnce sync.Once

// InitAPILogger opens (or creates) the API log file at logPath. Logging stays
// disabled when the file cannot be opened.
func InitAPILogger(logPath string) error {
	var initErr error
	loggerOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			initErr = fmt.Errorf("api logger: mkdir %s: %w", filepath.Dir(logPath), err)
			return
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = fmt.Errorf("api logger: open %s: %w", logPath, err)
			return
		}
		SetAPILogWriter(f)
	})
	return initErr
}

// SetAPILogWriter sends API log entries to w. A nil w disables logging.
func SetAPILogWriter(w io.Writer) {
	if w == nil {
		Logger = nil
		return
	}
	Logger = &apiLogger{w: w, enc: json.NewEncoder(w)}
}

// write failures are ignored; a logging error must never abort a request.
func (l *apiLogger) write(e APILogEntry) {
	e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(e)
}

// LogRequest records a completed HTTP request.
func LogRequest(label string, statusCode int, duration time.Duration, circState string, reqErr error) {
	l := Logger
	if l == nil {
		return
	}
	e := APILogEntry{
		Event:        "request",
		Label:        label,
		StatusCode:   statusCode,
		DurationMS:   duration.Milliseconds(),
		CircuitState: circState,
	}
	if reqErr != nil {
		e.Error = reqErr.Error()
	}
	l.write(e)
}

// LogRateLimitWait records that a request was delayed by the rate limiter.
func LogRateLimitWait(label string, waited time.Duration) {
	l := Logger
	if l == nil {
		return
	}
	l.write(APILogEntry{
		Event:         "rate_limit_wait",
		Label:         label,
		RateLimitedMS: waited.Milliseconds(),
	})
}

// LogCircuitStateChange records a circuit breaker state transition.
func LogCircuitStateChange(event, label, fromState, toState string) {
	l := Logger
	if l == nil {
		return
	}
	l.write(APILogEntry{
		Event:        event,
		Label:        label,
		CircuitState: toState,
		Error:        fmt.Sprintf("state transition: %s → %s", fromState, toState),
	})
}

// LogCircuitRejected records a request rejected because the circuit is open.
func LogCircuitRejected(service, label string) {
	l := Logger
	if l == nil {
		return
	}
	l.write(APILogEntry{
		Event:        "circuit_rejected",
		Service:      service,
		Label:        label,
		CircuitState: "open",
		Error:        ErrCircuitOpen.Error(),
	})
}
