package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmagar/musicsave-bot/internal/model"
)

const masterPlaylist = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=64000
low/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=256000
high/index.m3u8
`

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:10.0,
seg0.ts
#EXTINF:10.0,
seg1.ts
#EXT-X-ENDLIST
`

const encryptedPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-KEY:METHOD=AES-128,URI="key.bin"
#EXTINF:10.0,
seg0.ts
#EXT-X-ENDLIST
`

func hlsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		_, _ = w.Write([]byte(masterPlaylist))
	})
	mux.HandleFunc("/high/index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mediaPlaylist))
	})
	mux.HandleFunc("/low/index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		t.Error("low bandwidth variant should not be fetched")
	})
	mux.HandleFunc("/high/seg0.ts", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/cdn/seg0", http.StatusFound)
	})
	mux.HandleFunc("/cdn/seg0", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("first-"))
	})
	mux.HandleFunc("/high/seg1.ts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("second"))
	})
	mux.HandleFunc("/locked.m3u8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(encryptedPlaylist))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchHLSMasterSelectsHighestBandwidth(t *testing.T) {
	srv := hlsServer(t)
	s, err := newTestDownloader(srv).Fetch(context.Background(), srv.URL+"/master.m3u8")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	defer s.Close()
	if s.ContentLength() != -1 {
		t.Fatalf("ContentLength = %d, want -1", s.ContentLength())
	}
	if got := readAll(t, s); got != "first-second" {
		t.Fatalf("body = %q, want concatenated segments", got)
	}
}

func TestFetchHLSEncryptedUnsupported(t *testing.T) {
	srv := hlsServer(t)
	_, err := newTestDownloader(srv).Fetch(context.Background(), srv.URL+"/locked.m3u8")
	if !errors.Is(err, model.ErrUnsupportedPlaylist) {
		t.Fatalf("expected ErrUnsupportedPlaylist, got %v", err)
	}
}
