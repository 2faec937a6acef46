package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestPrintLinesAndCounters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	InitColorPalette(true)

	beforeErr := RunErrorCount.Load()
	beforeWarn := RunWarningCount.Load()

	PrintInfo("hello")
	Warnf("careful %d", 1)
	PrintError("boom")
	Debugf("hidden")

	got := buf.String()
	for _, want := range []string{"hello", "careful 1", "boom", SymbolCross} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "hidden") {
		t.Fatal("debug line printed while debug disabled")
	}
	if RunErrorCount.Load() != beforeErr+1 || RunWarningCount.Load() != beforeWarn+1 {
		t.Fatal("counters not incremented")
	}

	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })
	Debugf("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatal("debug line missing")
	}
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		name        string
		transferred int64
		total       int64
		want        string
	}{
		{name: "known total", transferred: 500_000, total: 1_000_000, want: "50.0% (500 kB / 1.0 MB)"},
		{name: "unknown total", transferred: 2_000_000, total: -1, want: "2.0 MB downloaded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatProgress(tc.transferred, tc.total); got != tc.want {
				t.Fatalf("FormatProgress() = %q, want %q", got, tc.want)
			}
		})
	}
	if FormatBytes(-1) != "unknown size" {
		t.Fatal("negative size should be unknown")
	}
}

func TestFormatCount(t *testing.T) {
	for n, want := range map[int]string{0: "0", 25: "25", 1200: "1,200", 1234567: "1,234,567"} {
		if got := FormatCount(n); got != want {
			t.Fatalf("FormatCount(%d) = %q, want %q", n, got, want)
		}
	}
}
