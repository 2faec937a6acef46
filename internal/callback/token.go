// Package callback encodes and decodes inline button payloads.
//
// Wire format: "<verb>_<payload...>" with "_" as the only delimiter. Page
// tokens carry the page index followed by the free-text query verbatim, so a
// query that itself contains "_" decodes back to the same string.
package callback

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jmagar/musicsave-bot/internal/model"
)

// Delimiter separates verb and payload segments.
const Delimiter = "_"

// MaxPageIndex bounds decoded page numbers. No real result set comes close.
const MaxPageIndex = 100_000

// Verb identifies the token variant.
type Verb int

const (
	VerbSearchArtist Verb = iota + 1
	VerbSearchAlbum
	VerbTrack
	VerbAlbum
	VerbPage
	VerbAlbumPage
)

func (v Verb) String() string {
	switch v {
	case VerbSearchArtist:
		return "search_artist"
	case VerbSearchAlbum:
		return "search_album"
	case VerbTrack:
		return "track"
	case VerbAlbum:
		return "album"
	case VerbPage:
		return "page"
	case VerbAlbumPage:
		return "albumpage"
	default:
		return "unknown"
	}
}

// Token is a decoded callback payload. Which fields are meaningful depends on
// Verb: ID for track/album, Page and Query for page/albumpage.
type Token struct {
	Verb  Verb
	ID    string
	Page  int
	Query string
}

// QueryKind maps a page token to the search it regenerates.
func (t Token) QueryKind() model.QueryKind {
	if t.Verb == VerbAlbumPage {
		return model.QueryAlbum
	}
	return model.QueryArtist
}

// ParseError reports a payload that matches no verb or has a bad payload.
type ParseError struct {
	Data   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed callback %q: %s", e.Data, e.Reason)
}

const (
	searchArtistData = "search_artist"
	searchAlbumData  = "search_album"
	albumPagePrefix  = "albumpage" + Delimiter
	pagePrefix       = "page" + Delimiter
	albumPrefix      = "album" + Delimiter
	trackPrefix      = "track" + Delimiter
)

// Decode parses a callback payload. Verbs are matched in a fixed order before
// any splitting happens; the first matching prefix wins.
func Decode(data string) (Token, error) {
	switch {
	case data == searchArtistData:
		return Token{Verb: VerbSearchArtist}, nil
	case data == searchAlbumData:
		return Token{Verb: VerbSearchAlbum}, nil
	case strings.HasPrefix(data, albumPagePrefix):
		return decodePage(data, VerbAlbumPage, strings.TrimPrefix(data, albumPagePrefix))
	case strings.HasPrefix(data, pagePrefix):
		return decodePage(data, VerbPage, strings.TrimPrefix(data, pagePrefix))
	case strings.HasPrefix(data, albumPrefix):
		return decodeID(data, VerbAlbum, strings.TrimPrefix(data, albumPrefix))
	case strings.HasPrefix(data, trackPrefix):
		return decodeID(data, VerbTrack, strings.TrimPrefix(data, trackPrefix))
	}
	return Token{}, &ParseError{Data: data, Reason: "unknown verb"}
}

func decodeID(data string, verb Verb, rest string) (Token, error) {
	// Catalog ids never contain the delimiter; anything after a second one is ignored.
	id, _, _ := strings.Cut(rest, Delimiter)
	if id == "" {
		return Token{}, &ParseError{Data: data, Reason: "missing id"}
	}
	return Token{Verb: verb, ID: id}, nil
}

func decodePage(data string, verb Verb, rest string) (Token, error) {
	parts := strings.SplitN(rest, Delimiter, 2)
	if len(parts) != 2 {
		return Token{}, &ParseError{Data: data, Reason: "missing query"}
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 0 || n > MaxPageIndex {
		return Token{}, &ParseError{Data: data, Reason: "bad page index"}
	}
	return Token{Verb: verb, Page: n, Query: parts[1]}, nil
}

// SearchArtist is the "choose artist search" payload.
func SearchArtist() string { return searchArtistData }

// SearchAlbum is the "choose album search" payload.
func SearchAlbum() string { return searchAlbumData }

// Track encodes a track selection.
func Track(id string) string { return trackPrefix + id }

// Album encodes an album selection.
func Album(id string) string { return albumPrefix + id }

// Page encodes artist-search page n for query.
func Page(n int, query string) string {
	return fitPayload(pagePrefix+strconv.Itoa(n)+Delimiter, query)
}

// AlbumPage encodes album-search page n for query.
func AlbumPage(n int, query string) string {
	return fitPayload(albumPagePrefix+strconv.Itoa(n)+Delimiter, query)
}

// ForPage picks the page encoder for a query kind.
func ForPage(kind model.QueryKind, n int, query string) string {
	if kind == model.QueryAlbum {
		return AlbumPage(n, query)
	}
	return Page(n, query)
}

// fitPayload appends as much of query as fits the button payload limit,
// cutting on a rune boundary.
func fitPayload(head, query string) string {
	room := model.MaxCallbackDataBytes - len(head)
	if len(query) <= room {
		return head + query
	}
	cut := 0
	for cut < len(query) {
		_, size := utf8.DecodeRuneInString(query[cut:])
		if cut+size > room {
			break
		}
		cut += size
	}
	return head + query[:cut]
}
