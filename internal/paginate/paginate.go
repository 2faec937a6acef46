// Package paginate turns raw search hits into stable, deduplicated pages.
package paginate

import (
	"unicode/utf8"

	"github.com/jmagar/musicsave-bot/internal/model"
)

// Dedup keeps the first occurrence of every key, in input order. Later
// duplicates are dropped, not merged.
func Dedup[T any](raw []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(raw))
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// BuildPage deduplicates raw and returns window pageIndex of it. An
// out-of-range index yields an empty page rather than an error.
func BuildPage[T any](raw []T, key func(T) string, pageIndex, pageSize int) model.Page[T] {
	if pageSize <= 0 {
		pageSize = model.PageSize
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	items := Dedup(raw, key)
	total := len(items)

	page := model.Page[T]{
		Items:   []T{},
		Index:   pageIndex,
		Size:    pageSize,
		Total:   total,
		HasPrev: pageIndex > 0,
	}
	// Compare by division so huge indices cannot overflow the offsets.
	if pageIndex > total/pageSize {
		return page
	}
	start := pageIndex * pageSize
	if start < total {
		end := min(start+pageSize, total)
		page.Items = items[start:end]
	}
	page.HasNext = total-start > pageSize
	return page
}

// TruncateLabel cuts labels longer than the button limit to exactly
// MaxLabelLength runes, the last three being an ellipsis.
func TruncateLabel(label string) string {
	if utf8.RuneCountInString(label) <= model.MaxLabelLength {
		return label
	}
	keep := model.MaxLabelLength - utf8.RuneCountInString(model.LabelEllipsis)
	runes := []rune(label)
	return string(runes[:keep]) + model.LabelEllipsis
}

// TrackKey is the dedup key for artist (track) searches.
func TrackKey(h model.SearchHit) string { return h.ID }

// AlbumKey is the dedup key for album searches.
func AlbumKey(h model.SearchHit) string { return h.AlbumID }
