package model

import "strings"

// ArtistRef is an artist as referenced from a track or album.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Image is one rendition of a cover or artist picture.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SearchHit is one raw catalog search result. Track hits carry the album they
// belong to; album hits have ID == AlbumID.
type SearchHit struct {
	Kind      HitKind
	ID        string
	Title     string
	Artists   []ArtistRef
	AlbumID   string
	AlbumName string
	ImageURL  string
}

// ArtistNames returns the artist names in catalog order.
func (h SearchHit) ArtistNames() []string {
	return artistNames(h.Artists)
}

// Album is the detail view of a catalog album.
type Album struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Artists  []ArtistRef `json:"artists"`
	Images   []Image     `json:"images"`
	TrackIDs []string    `json:"trackIds"`
}

// ArtistNames returns the album artist names in catalog order.
func (a *Album) ArtistNames() []string {
	return artistNames(a.Artists)
}

// Artist is the detail view of a catalog artist.
type Artist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track is the detail view of a catalog track.
type Track struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Artists   []ArtistRef `json:"artists"`
	URL       string      `json:"url"`
	AlbumID   string      `json:"albumId,omitempty"`
	AlbumName string      `json:"albumName,omitempty"`
}

// ArtistNames returns the track artist names in catalog order.
func (t *Track) ArtistNames() []string {
	return artistNames(t.Artists)
}

// LargestImage returns the URL of the tallest image, or "" when there is none.
func LargestImage(images []Image) string {
	best := -1
	for i, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			continue
		}
		if best < 0 || img.Height > images[best].Height {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return images[best].URL
}

// JoinArtists renders artist names the way button labels show them.
func JoinArtists(names []string) string {
	return strings.Join(names, ", ")
}

func artistNames(refs []ArtistRef) []string {
	names := make([]string, 0, len(refs))
	for _, a := range refs {
		names = append(names, a.Name)
	}
	return names
}
