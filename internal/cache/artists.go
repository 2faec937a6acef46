// Package cache keeps short-lived copies of catalog lookups that every
// artist result page repeats.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jmagar/musicsave-bot/internal/api"
	"github.com/jmagar/musicsave-bot/internal/model"
)

// DefaultArtistTTL is how long an artist lookup is reused.
const DefaultArtistTTL = 10 * time.Minute

// ArtistSource looks up one artist. Unknown ids return nil, nil.
type ArtistSource interface {
	GetArtist(ctx context.Context, id string) (*model.Artist, error)
}

type artistEntry struct {
	artist   *model.Artist
	cachedAt time.Time
}

// Artists caches GetArtist results, including "not found", for TTL.
// Errors are never cached.
type Artists struct {
	src ArtistSource
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]artistEntry
}

// NewArtists wraps src. A non-positive ttl uses DefaultArtistTTL.
func NewArtists(src ArtistSource, ttl time.Duration) *Artists {
	if ttl <= 0 {
		ttl = DefaultArtistTTL
	}
	return &Artists{src: src, ttl: ttl, now: time.Now, entries: make(map[string]artistEntry)}
}

// GetArtist returns the cached artist for id, refreshing stale entries.
func (a *Artists) GetArtist(ctx context.Context, id string) (*model.Artist, error) {
	now := a.now()
	a.mu.Lock()
	e, ok := a.entries[id]
	a.mu.Unlock()
	if ok && now.Sub(e.cachedAt) < a.ttl {
		return e.artist, nil
	}

	artist, err := a.src.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.entries[id] = artistEntry{artist: artist, cachedAt: now}
	a.prune(now)
	a.mu.Unlock()
	return artist, nil
}

// prune drops expired entries. Caller holds mu.
func (a *Artists) prune(now time.Time) {
	for id, e := range a.entries {
		if now.Sub(e.cachedAt) >= a.ttl {
			delete(a.entries, id)
		}
	}
}

// Len reports the number of cached entries.
func (a *Artists) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Catalog is a catalog client whose artist lookups go through Artists.
type Catalog struct {
	*api.Client
	artists *Artists
}

// NewCatalog wraps c with an artist cache of the given ttl.
func NewCatalog(c *api.Client, ttl time.Duration) *Catalog {
	return &Catalog{Client: c, artists: NewArtists(c, ttl)}
}

func (c *Catalog) GetArtist(ctx context.Context, id string) (*model.Artist, error) {
	return c.artists.GetArtist(ctx, id)
}
