package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmagar/musicsave-bot/internal/model"
)

const (
	// UserAgent is sent on every catalog request.
	UserAgent = "musicsave-bot/1.0"

	catalogRPS   = 5.0
	catalogBurst = 10
)

// Client is the HTTP JSON client for the music catalog service.
type Client struct {
	BaseURL string
	Gateway *Gateway
}

// NewClient returns a catalog client rooted at baseURL. A nil httpClient gets
// a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Gateway: NewGateway("catalog", httpClient, catalogRPS, catalogBurst),
	}
}

// errNotFound marks a 404 inside getJSON; callers map it to an empty result.
type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

// getJSON issues GET path?query and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, label, path string, query url.Values, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	resp, err := c.Gateway.Do(ctx, label, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return errNotFound{}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", label, err)
	}
	return nil
}

func isNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// Search runs a free-text catalog query and returns track and album hits in
// catalog order. Artist results are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]model.SearchHit, error) {
	var obj model.SearchResp
	err := c.getJSON(ctx, "catalog.search", "/search", url.Values{"q": {query}}, &obj)
	if isNotFound(err) {
		return []model.SearchHit{}, nil
	}
	if err != nil {
		return nil, &model.CatalogError{Op: "search", Err: err}
	}
	hits := make([]model.SearchHit, 0, len(obj.Results))
	for _, item := range obj.Results {
		if hit, ok := toHit(item); ok {
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

func toHit(item model.SearchItem) (model.SearchHit, bool) {
	switch {
	case item.Type == "track" && item.Track != nil:
		t := item.Track
		hit := model.SearchHit{
			Kind:    model.HitTrack,
			ID:      t.ID,
			Title:   t.Title,
			Artists: t.Artists,
		}
		if t.Album != nil {
			hit.AlbumID = t.Album.ID
			hit.AlbumName = t.Album.Name
			hit.ImageURL = model.LargestImage(t.Album.Images)
		}
		return hit, hit.ID != ""
	case item.Type == "album" && item.Album != nil:
		a := item.Album
		return model.SearchHit{
			Kind:      model.HitAlbum,
			ID:        a.ID,
			Title:     a.Name,
			Artists:   a.Artists,
			AlbumID:   a.ID,
			AlbumName: a.Name,
			ImageURL:  model.LargestImage(a.Images),
		}, a.ID != ""
	}
	return model.SearchHit{}, false
}

// GetAlbum returns album metadata, or nil when the album does not exist.
func (c *Client) GetAlbum(ctx context.Context, id string) (*model.Album, error) {
	var obj model.Album
	err := c.getJSON(ctx, "catalog.album", "/albums/"+url.PathEscape(id), nil, &obj)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &model.CatalogError{Op: "album " + id, Err: err}
	}
	return &obj, nil
}

// GetAlbumTracks returns the album's tracks in order. A missing album has no tracks.
func (c *Client) GetAlbumTracks(ctx context.Context, id string) ([]model.Track, error) {
	var obj model.AlbumTracksResp
	err := c.getJSON(ctx, "catalog.album_tracks", "/albums/"+url.PathEscape(id)+"/tracks", nil, &obj)
	if isNotFound(err) {
		return []model.Track{}, nil
	}
	if err != nil {
		return nil, &model.CatalogError{Op: "album tracks " + id, Err: err}
	}
	if obj.Tracks == nil {
		obj.Tracks = []model.Track{}
	}
	return obj.Tracks, nil
}

// GetArtist returns artist metadata, or nil when the artist does not exist.
func (c *Client) GetArtist(ctx context.Context, id string) (*model.Artist, error) {
	var obj model.Artist
	err := c.getJSON(ctx, "catalog.artist", "/artists/"+url.PathEscape(id), nil, &obj)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &model.CatalogError{Op: "artist " + id, Err: err}
	}
	return &obj, nil
}

// GetTrack returns track metadata, or nil when the track does not exist.
func (c *Client) GetTrack(ctx context.Context, id string) (*model.Track, error) {
	var obj model.Track
	err := c.getJSON(ctx, "catalog.track", "/tracks/"+url.PathEscape(id), nil, &obj)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &model.CatalogError{Op: "track " + id, Err: err}
	}
	return &obj, nil
}

// GetDownloadURL asks the catalog for a direct download link. An unknown
// reference yields "" and no error.
func (c *Client) GetDownloadURL(ctx context.Context, ref string) (string, error) {
	var obj model.DownloadURLResp
	err := c.getJSON(ctx, "catalog.download_url", "/tracks/download", url.Values{"ref": {ref}}, &obj)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", &model.CatalogError{Op: "download url " + ref, Err: err}
	}
	return strings.TrimSpace(obj.URL), nil
}
