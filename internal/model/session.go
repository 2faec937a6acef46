package model

// PageRequest carries everything needed to regenerate a result page. The bot
// keeps no session, so all of it round-trips through callback tokens.
type PageRequest struct {
	Kind  QueryKind
	Query string
	Page  int
	// AnchorMessageID is the message to edit in place; 0 sends a new one.
	AnchorMessageID int
	AnchorHasPhoto  bool
}

// Anchored reports whether the page replaces an existing message.
func (r PageRequest) Anchored() bool {
	return r.AnchorMessageID != 0
}

// Page is one window over a deduplicated result set.
type Page[T any] struct {
	Items   []T
	Index   int
	Size    int
	Total   int
	HasPrev bool
	HasNext bool
}

// DownloadSession describes one HTTP download for its lifetime.
type DownloadSession struct {
	SourceURL     string
	FinalURL      string
	Redirects     int
	ContentLength int64 // -1 when the server did not send one
	Transferred   int64
}
