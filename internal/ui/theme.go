package ui

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Palette used by the Print* helpers.
var (
	ColorOK      = color.New(color.FgHiGreen)
	ColorErr     = color.New(color.FgHiRed)
	ColorWarn    = color.New(color.FgHiYellow)
	ColorInfo    = color.New(color.FgHiBlue)
	ColorDL      = color.New(color.FgHiCyan)
	ColorDebug   = color.New(color.FgHiBlack)
	ColorMessage = color.New(color.FgHiMagenta)
	ActiveTheme  = "vivid"
)

// Unicode symbols
var (
	SymbolCheck    = "✓"
	SymbolCross    = "✗"
	SymbolArrow    = "→"
	SymbolMusic    = "♪"
	SymbolDownload = "⬇"
	SymbolUpload   = "⬆"
	SymbolInfo     = "ℹ"
	SymbolWarning  = "⚠"
	SymbolGear     = "⚙"
)

func init() {
	InitColorPalette(false)
}

// InitColorPalette selects the colour theme from MUSICSAVE_THEME and turns
// colour off when stdout is not a terminal or disable is set.
func InitColorPalette(disable bool) {
	theme := strings.ToLower(strings.TrimSpace(os.Getenv("MUSICSAVE_THEME")))
	if theme != "" {
		ActiveTheme = theme
	}
	if ActiveTheme == "muted" {
		ColorOK = color.New(color.FgGreen)
		ColorErr = color.New(color.FgRed)
		ColorWarn = color.New(color.FgYellow)
		ColorInfo = color.New(color.FgBlue)
		ColorDL = color.New(color.FgCyan)
		ColorMessage = color.New(color.FgMagenta)
	}
	color.NoColor = disable || !IsTerminal()
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
