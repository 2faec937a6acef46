package download

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

var playlistContentTypes = map[string]bool{
	"application/vnd.apple.mpegurl": true,
	"application/x-mpegurl":         true,
	"audio/mpegurl":                 true,
	"audio/x-mpegurl":               true,
}

func isPlaylist(resp *http.Response) bool {
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && playlistContentTypes[strings.ToLower(mt)] {
		return true
	}
	return resp.Request != nil && strings.HasSuffix(strings.ToLower(resp.Request.URL.Path), ".m3u8")
}

// openPlaylist decodes the playlist in resp and returns a reader over the
// concatenated media segments. A master playlist is replaced by its
// highest-bandwidth variant. resp.Body is always closed.
func (d *Downloader) openPlaylist(ctx context.Context, resp *http.Response, playlistURL string) (io.ReadCloser, error) {
	playlist, listType, err := decodePlaylist(resp)
	if err != nil {
		return nil, err
	}

	if listType == m3u8.MASTER {
		master := playlist.(*m3u8.MasterPlaylist)
		variantURL, err := bestVariant(master, playlistURL)
		if err != nil {
			return nil, err
		}
		ui.Debugf("hls: selected variant %s", variantURL)
		vresp, vsession, err := d.follow(ctx, variantURL)
		if err != nil {
			return nil, err
		}
		playlist, listType, err = decodePlaylist(vresp)
		if err != nil {
			return nil, err
		}
		if listType != m3u8.MEDIA {
			return nil, fmt.Errorf("%w: variant is not a media playlist", model.ErrUnsupportedPlaylist)
		}
		playlistURL = vsession.FinalURL
	}

	media := playlist.(*m3u8.MediaPlaylist)
	segURLs, err := segmentURLs(media, playlistURL)
	if err != nil {
		return nil, err
	}
	return &segmentReader{ctx: ctx, d: d, urls: segURLs}, nil
}

func decodePlaylist(resp *http.Response) (m3u8.Playlist, m3u8.ListType, error) {
	defer resp.Body.Close()
	playlist, listType, err := m3u8.DecodeFrom(resp.Body, true)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrUnsupportedPlaylist, err)
	}
	return playlist, listType, nil
}

func bestVariant(master *m3u8.MasterPlaylist, base string) (string, error) {
	variants := make([]*m3u8.Variant, 0, len(master.Variants))
	for _, v := range master.Variants {
		if v != nil && v.URI != "" {
			variants = append(variants, v)
		}
	}
	if len(variants) == 0 {
		return "", fmt.Errorf("%w: master playlist has no variants", model.ErrUnsupportedPlaylist)
	}
	sort.Slice(variants, func(x, y int) bool {
		return variants[x].Bandwidth > variants[y].Bandwidth
	})
	return resolveRef(base, variants[0].URI)
}

func encrypted(k *m3u8.Key) bool {
	return k != nil && k.Method != "" && !strings.EqualFold(k.Method, "NONE")
}

func segmentURLs(media *m3u8.MediaPlaylist, base string) ([]string, error) {
	if encrypted(media.Key) {
		return nil, fmt.Errorf("%w: encrypted media playlist", model.ErrUnsupportedPlaylist)
	}
	var urls []string
	for _, seg := range media.Segments {
		if seg == nil {
			continue
		}
		if encrypted(seg.Key) {
			return nil, fmt.Errorf("%w: encrypted segment", model.ErrUnsupportedPlaylist)
		}
		u, err := resolveRef(base, seg.URI)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: media playlist has no segments", model.ErrUnsupportedPlaylist)
	}
	return urls, nil
}

func resolveRef(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := b.Parse(ref)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// segmentReader opens each segment through the redirect follower only when
// the previous one is exhausted.
type segmentReader struct {
	ctx  context.Context
	d    *Downloader
	urls []string
	idx  int
	cur  io.ReadCloser
}

func (r *segmentReader) Read(p []byte) (int, error) {
	for {
		if r.cur == nil {
			if r.idx >= len(r.urls) {
				return 0, io.EOF
			}
			resp, _, err := r.d.follow(r.ctx, r.urls[r.idx])
			if err != nil {
				return 0, err
			}
			r.idx++
			r.cur = resp.Body
		}
		n, err := r.cur.Read(p)
		if err == io.EOF {
			r.cur.Close()
			r.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (r *segmentReader) Close() error {
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur = nil
	return err
}
