// Package metrics holds the bot's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "musicsave"

// Metrics implements bot.Metrics and api.RequestObserver.
type Metrics struct {
	Registry *prometheus.Registry

	updates     *prometheus.CounterVec
	callbacks   *prometheus.CounterVec
	searches    *prometheus.CounterVec
	results     *prometheus.HistogramVec
	relays      *prometheus.CounterVec
	relayBytes  prometheus.Counter
	panics      prometheus.Counter
	requests    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Inbound updates by kind.",
		}, []string{"kind"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Decoded callback actions by verb.",
		}, []string{"verb"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Search pages served by search kind.",
		}, []string{"kind"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Results shown per search page.",
			Buckets:   []float64{0, 1, 2, 5, 10},
		}, []string{"kind"}),
		relays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_relays_total",
			Help:      "Track download attempts by result.",
		}, []string{"result"}),
		relayBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_relay_bytes_total",
			Help:      "Bytes streamed from download URLs to chats.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_panics_total",
			Help:      "Update handlers that panicked and were recovered.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound API requests by service, endpoint and status code.",
		}, []string{"service", "label", "code"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "label"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.updates, m.callbacks, m.searches, m.results,
		m.relays, m.relayBytes, m.panics,
		m.requests, m.reqDuration,
	)
	return m
}

func (m *Metrics) UpdateReceived(kind string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(kind).Inc()
}

func (m *Metrics) CallbackDispatched(verb string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(verb).Inc()
}

func (m *Metrics) SearchServed(kind string, results int) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(kind).Inc()
	m.results.WithLabelValues(kind).Observe(float64(results))
}

// TrackRelayed counts one relay attempt. bytes is what reached the chat
// client, which may be partial on failure.
func (m *Metrics) TrackRelayed(result string, bytes int64) {
	if m == nil {
		return
	}
	m.relays.WithLabelValues(result).Inc()
	if bytes > 0 {
		m.relayBytes.Add(float64(bytes))
	}
}

func (m *Metrics) HandlerPanic() {
	if m == nil {
		return
	}
	m.panics.Inc()
}

// ObserveRequest records one upstream request. status 0 is reported as
// code "error".
func (m *Metrics) ObserveRequest(service, label string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(service, label, code).Inc()
	if d > 0 {
		m.reqDuration.WithLabelValues(service, label).Observe(d.Seconds())
	}
}
