package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

// RunErrorCount and RunWarningCount track errors/warnings since start.
var (
	RunErrorCount   atomic.Int64
	RunWarningCount atomic.Int64
)

var (
	outMu   sync.Mutex
	out     io.Writer = os.Stdout
	debugOn atomic.Bool
)

// SetOutput redirects log lines; tests use it to capture output.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

// SetDebug enables Debugf lines.
func SetDebug(on bool) {
	debugOn.Store(on)
}

// update handlers run concurrently, so lines are written under a lock
func printLine(c *color.Color, symbol, msg string) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(out, "%s %s %s\n", time.Now().Format("15:04:05"), c.Sprint(symbol), msg)
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	printLine(ColorOK, SymbolCheck, msg)
}

// PrintError prints an error message and increments the error counter.
func PrintError(msg string) {
	RunErrorCount.Add(1)
	printLine(ColorErr, SymbolCross, msg)
}

// PrintInfo prints an info message.
func PrintInfo(msg string) {
	printLine(ColorInfo, SymbolInfo, msg)
}

// PrintWarning prints a warning message and increments the warning counter.
func PrintWarning(msg string) {
	RunWarningCount.Add(1)
	printLine(ColorWarn, SymbolWarning, msg)
}

// PrintDownload prints a download message.
func PrintDownload(msg string) {
	printLine(ColorDL, SymbolDownload, msg)
}

// PrintUpload prints an upload message.
func PrintUpload(msg string) {
	printLine(ColorDL, SymbolUpload, msg)
}

// PrintMusic prints a music message.
func PrintMusic(msg string) {
	printLine(ColorMessage, SymbolMusic, msg)
}

// Infof is PrintInfo with formatting.
func Infof(format string, args ...any) { PrintInfo(fmt.Sprintf(format, args...)) }

// Warnf is PrintWarning with formatting.
func Warnf(format string, args ...any) { PrintWarning(fmt.Sprintf(format, args...)) }

// Errorf is PrintError with formatting.
func Errorf(format string, args ...any) { PrintError(fmt.Sprintf(format, args...)) }

// Debugf prints only when debug output is enabled.
func Debugf(format string, args ...any) {
	if !debugOn.Load() {
		return
	}
	printLine(ColorDebug, SymbolGear, fmt.Sprintf(format, args...))
}

// Fatal prints msg and exits with status 1. Only startup code calls it.
func Fatal(msg string) {
	PrintError(msg)
	os.Exit(1)
}
