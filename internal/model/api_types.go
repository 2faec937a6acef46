package model

// SearchResp is the catalog /search response body.
type SearchResp struct {
	Results []SearchItem `json:"results"`
}

// SearchItem is one tagged search result. Exactly one of Track, Album or
// Artist is set, matching Type.
type SearchItem struct {
	Type   string      `json:"type"`
	Track  *TrackItem  `json:"track,omitempty"`
	Album  *AlbumItem  `json:"album,omitempty"`
	Artist *ArtistItem `json:"artist,omitempty"`
}

// TrackItem is a track as it appears in search results.
type TrackItem struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Artists []ArtistRef `json:"artists"`
	Album   *AlbumItem  `json:"album,omitempty"`
}

// AlbumItem is an album as it appears in search results.
type AlbumItem struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Artists []ArtistRef `json:"artists,omitempty"`
	Images  []Image     `json:"images,omitempty"`
}

// ArtistItem is an artist as it appears in search results.
type ArtistItem struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images,omitempty"`
}

// AlbumTracksResp is the catalog /albums/{id}/tracks response body.
type AlbumTracksResp struct {
	Tracks []Track `json:"tracks"`
}

// DownloadURLResp is the catalog /tracks/download response body.
type DownloadURLResp struct {
	URL string `json:"url"`
}
