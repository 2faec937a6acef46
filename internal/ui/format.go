package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jmagar/musicsave-bot/internal/model"
)

// FormatBytes renders a byte count, or the unknown-size label for n < 0.
func FormatBytes(n int64) string {
	if n < 0 {
		return model.UnknownSizeLabel
	}
	return humanize.Bytes(uint64(n))
}

// FormatProgress renders one download progress line.
func FormatProgress(transferred, total int64) string {
	if total > 0 {
		pct := float64(transferred) / float64(total) * 100
		return fmt.Sprintf("%.1f%% (%s / %s)", pct, FormatBytes(transferred), FormatBytes(total))
	}
	return fmt.Sprintf("%s downloaded", FormatBytes(transferred))
}

// FormatCount renders a result count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
