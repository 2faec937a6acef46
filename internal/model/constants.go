package model

import "time"

// Pagination and button limits.
const (
	PageSize       = 10
	MaxLabelLength = 64
	LabelEllipsis  = "..."
	// MaxCallbackDataBytes is the Bot API ceiling for inline button payloads.
	MaxCallbackDataBytes = 64
)

// Downloader bounds.
const (
	MaxRedirects           = 10
	ChunkSize              = 80 * 1024
	ProgressInterval       = 2 * time.Second
	DefaultDownloadTimeout = 30 * time.Minute
	UnknownSizeLabel       = "unknown size"
)

// QueryKind is the free-text search mode pending for a chat.
// QueryArtist is the zero value and doubles as "nothing pending".
type QueryKind int

const (
	QueryArtist QueryKind = iota
	QueryAlbum
)

// String returns the string representation of the QueryKind
func (k QueryKind) String() string {
	switch k {
	case QueryAlbum:
		return "album"
	default:
		return "artist"
	}
}

// MessageKind classifies an inbound chat message.
type MessageKind int

const (
	MessageText MessageKind = iota
	MessageAudio
	MessageVoice
	MessageDocument
	MessageOther
)

// HitKind tells track hits from album hits.
type HitKind int

const (
	HitTrack HitKind = iota
	HitAlbum
)
