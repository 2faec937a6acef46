package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.UpdateReceived("message")
	m.UpdateReceived("message")
	m.UpdateReceived("callback")
	m.CallbackDispatched("track")
	m.SearchServed("artist", 5)
	m.TrackRelayed("ok", 1024)
	m.TrackRelayed("download_error", 0)
	m.HandlerPanic()

	if got := testutil.ToFloat64(m.updates.WithLabelValues("message")); got != 2 {
		t.Fatalf("message updates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.relayBytes); got != 1024 {
		t.Fatalf("relay bytes = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(m.relays.WithLabelValues("download_error")); got != 1 {
		t.Fatalf("failed relays = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.panics); got != 1 {
		t.Fatalf("panics = %v, want 1", got)
	}
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("catalog", "catalog.search", 200, 20*time.Millisecond)
	m.ObserveRequest("catalog", "catalog.search", 0, 0)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("catalog", "catalog.search", "200")); got != 1 {
		t.Fatalf("200 requests = %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("catalog", "catalog.search", "error")); got != 1 {
		t.Fatalf("error requests = %v", got)
	}
	if n := testutil.CollectAndCount(m.reqDuration); n != 1 {
		t.Fatalf("duration series = %d, want 1", n)
	}
}

func TestRegistryExposesNamespace(t *testing.T) {
	m := New()
	m.UpdateReceived("message")
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "musicsave_updates_total") {
			found = true
		}
	}
	if !found {
		t.Fatal("musicsave_updates_total not gathered")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.UpdateReceived("message")
	m.CallbackDispatched("page")
	m.SearchServed("album", 0)
	m.TrackRelayed("ok", 10)
	m.HandlerPanic()
	m.ObserveRequest("telegram", "telegram.sendMessage", 200, time.Second)
}
