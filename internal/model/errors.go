package model

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMissingBotToken is returned when no bot token was configured.
	ErrMissingBotToken = errors.New("BOT_TOKEN is not set")
	// ErrUnsupportedPlaylist is returned for encrypted or empty HLS playlists.
	ErrUnsupportedPlaylist = errors.New("unsupported HLS playlist")
)

// CatalogError is a search or lookup failure in the music catalog.
type CatalogError struct {
	Op  string
	Err error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// DownloadErrorKind classifies a DownloadError.
type DownloadErrorKind int

const (
	DownloadTooManyRedirects DownloadErrorKind = iota + 1
	DownloadHTTPStatus
	DownloadNetwork
)

func (k DownloadErrorKind) String() string {
	switch k {
	case DownloadTooManyRedirects:
		return "too many redirects"
	case DownloadHTTPStatus:
		return "http status"
	case DownloadNetwork:
		return "network error"
	default:
		return "unknown"
	}
}

// DownloadError is a failure while fetching a download URL.
type DownloadError struct {
	Kind DownloadErrorKind
	URL  string
	Code int // set for DownloadHTTPStatus
	Err  error
}

func (e *DownloadError) Error() string {
	switch e.Kind {
	case DownloadTooManyRedirects:
		return fmt.Sprintf("too many redirects (more than %d) starting at %s", MaxRedirects, e.URL)
	case DownloadHTTPStatus:
		return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
	default:
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	}
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ResolutionErrorKind classifies a ResolutionError.
type ResolutionErrorKind int

const (
	ResolutionNotFound ResolutionErrorKind = iota + 1
	ResolutionUpstream
)

// ResolutionError means a track reference could not be turned into a URL.
type ResolutionError struct {
	Kind ResolutionErrorKind
	Ref  string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Kind == ResolutionNotFound {
		return fmt.Sprintf("no download link for %s", e.Ref)
	}
	return fmt.Sprintf("resolve %s: %v", e.Ref, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// SendError is an outbound delivery failure on the chat transport.
type SendError struct {
	Method string
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %s: %v", e.Method, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
