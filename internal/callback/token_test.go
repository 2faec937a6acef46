package callback

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jmagar/musicsave-bot/internal/model"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Token
	}{
		{name: "search artist", data: "search_artist", want: Token{Verb: VerbSearchArtist}},
		{name: "search album", data: "search_album", want: Token{Verb: VerbSearchAlbum}},
		{name: "track", data: "track_4uLU6hMCjMI75M1A2tKUQC", want: Token{Verb: VerbTrack, ID: "4uLU6hMCjMI75M1A2tKUQC"}},
		{name: "album", data: "album_1A2GTWGtFfWp7KSQTwWOyo", want: Token{Verb: VerbAlbum, ID: "1A2GTWGtFfWp7KSQTwWOyo"}},
		{name: "page", data: "page_2_Imagine Dragons", want: Token{Verb: VerbPage, Page: 2, Query: "Imagine Dragons"}},
		{name: "page query with delimiter", data: "page_0_snake_case_band", want: Token{Verb: VerbPage, Page: 0, Query: "snake_case_band"}},
		{name: "album page not mistaken for album", data: "albumpage_3_Night Visions", want: Token{Verb: VerbAlbumPage, Page: 3, Query: "Night Visions"}},
		{name: "page with empty query", data: "page_1_", want: Token{Verb: VerbPage, Page: 1, Query: ""}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.data)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", tc.data, err)
			}
			if got != tc.want {
				t.Fatalf("Decode(%q) = %+v, want %+v", tc.data, got, tc.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, data := range []string{"", "search", "track_", "album_", "page_x_query", "page_2", "albumpage_-1_q", "nonsense_1", "page_922337203685477581_x", "page_100001_x"} {
		t.Run(data, func(t *testing.T) {
			_, err := Decode(data)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Decode(%q) error = %v, want *ParseError", data, err)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, query := range []string{"Imagine Dragons", "a_b_c", "AC/DC", "Сплин"} {
		tok, err := Decode(Page(4, query))
		if err != nil {
			t.Fatalf("decode page: %v", err)
		}
		if tok.Verb != VerbPage || tok.Page != 4 || tok.Query != query {
			t.Fatalf("page round trip = %+v", tok)
		}
		tok, err = Decode(ForPage(model.QueryAlbum, 1, query))
		if err != nil {
			t.Fatalf("decode albumpage: %v", err)
		}
		if tok.Verb != VerbAlbumPage || tok.QueryKind() != model.QueryAlbum || tok.Query != query {
			t.Fatalf("albumpage round trip = %+v", tok)
		}
	}
}

func TestPageTokenFitsButtonLimit(t *testing.T) {
	long := strings.Repeat("Ж", 60)
	data := AlbumPage(12, long)
	if len(data) > model.MaxCallbackDataBytes {
		t.Fatalf("token is %d bytes", len(data))
	}
	if !utf8.ValidString(data) {
		t.Fatalf("token cut inside a rune: %q", data)
	}
	tok, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(long, tok.Query) || tok.Query == "" {
		t.Fatalf("query %q is not a prefix of the original", tok.Query)
	}
}
