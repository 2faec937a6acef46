// Package testutil provides shared test helpers used across internal packages.
package testutil

import (
	"os"
	"testing"

	"github.com/jmagar/musicsave-bot/internal/ui"
)

// CaptureLog sends ui log lines to a buffer until the test ends.
func CaptureLog(t *testing.T) *SyncBuffer {
	t.Helper()
	buf := &SyncBuffer{}
	ui.SetOutput(buf)
	t.Cleanup(func() { ui.SetOutput(os.Stdout) })
	return buf
}

// ChdirTemp changes to a temp directory and restores cwd on cleanup.
func ChdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get cwd: %v", err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("failed to chdir temp: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(orig)
	})
	return tmp
}
