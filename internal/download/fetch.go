// Package download follows download redirect chains and exposes the terminal
// response body as a single-pass stream.
package download

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

// ProgressFunc receives the bytes transferred so far and the content length
// (-1 when unknown).
type ProgressFunc func(transferred, total int64)

// Downloader fetches a URL, following redirects by hand so the hop count can
// be bounded. It never retries.
type Downloader struct {
	HTTP             *http.Client
	MaxRedirects     int
	Progress         ProgressFunc
	ProgressInterval time.Duration

	now func() time.Time
}

// NewDownloader returns a downloader whose whole transfer is bounded by timeout.
// A non-positive timeout uses the 30 minute default.
func NewDownloader(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = model.DefaultDownloadTimeout
	}
	return &Downloader{
		HTTP:             newHTTPClient(timeout, nil),
		MaxRedirects:     model.MaxRedirects,
		Progress:         LogProgress,
		ProgressInterval: model.ProgressInterval,
	}
}

func newHTTPClient(timeout time.Duration, transport http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// WithClient returns a copy of d that sends requests through c. Automatic
// redirect following on c is disabled in the copy.
func (d *Downloader) WithClient(c *http.Client) *Downloader {
	cp := *d
	cp.HTTP = newHTTPClient(c.Timeout, c.Transport)
	return &cp
}

// LogProgress is the default progress sink.
func LogProgress(transferred, total int64) {
	ui.PrintDownload(ui.FormatProgress(transferred, total))
}

// Fetch resolves the redirect chain starting at rawURL and returns the
// terminal body as a stream. Only response headers have been read when Fetch
// returns. HLS playlists are expanded into their media segments.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (*Stream, error) {
	resp, session, err := d.follow(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if isPlaylist(resp) {
		body, err := d.openPlaylist(ctx, resp, session.FinalURL)
		if err != nil {
			return nil, err
		}
		session.ContentLength = -1
		return d.newStream(body, session), nil
	}
	session.ContentLength = resp.ContentLength
	return d.newStream(resp.Body, session), nil
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// follow issues GETs until it reaches a non-redirect response. A redirect
// status without a Location header is treated as terminal. On success the
// caller owns resp.Body.
func (d *Downloader) follow(ctx context.Context, rawURL string) (*http.Response, *model.DownloadSession, error) {
	maxHops := d.MaxRedirects
	if maxHops <= 0 {
		maxHops = model.MaxRedirects
	}
	session := &model.DownloadSession{SourceURL: rawURL, ContentLength: -1}
	current := rawURL

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, nil, &model.DownloadError{Kind: model.DownloadNetwork, URL: current, Err: err}
		}
		resp, err := d.HTTP.Do(req)
		if err != nil {
			return nil, nil, &model.DownloadError{Kind: model.DownloadNetwork, URL: current, Err: err}
		}

		loc := resp.Header.Get("Location")
		if isRedirect(resp.StatusCode) && loc != "" {
			resp.Body.Close()
			if session.Redirects >= maxHops {
				return nil, nil, &model.DownloadError{Kind: model.DownloadTooManyRedirects, URL: rawURL}
			}
			next, err := resp.Request.URL.Parse(loc)
			if err != nil {
				return nil, nil, &model.DownloadError{Kind: model.DownloadNetwork, URL: current, Err: err}
			}
			ui.Debugf("redirect %d: %s -> %s", session.Redirects+1, current, next)
			current = next.String()
			session.Redirects++
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, nil, &model.DownloadError{
				Kind: model.DownloadHTTPStatus,
				URL:  current,
				Code: resp.StatusCode,
				Err:  errors.New(resp.Status),
			}
		}
		session.FinalURL = current
		return resp, session, nil
	}
}

func (d *Downloader) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}
