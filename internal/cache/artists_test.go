package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmagar/musicsave-bot/internal/model"
)

type countingSource struct {
	calls   int
	artists map[string]*model.Artist
	err     error
}

func (s *countingSource) GetArtist(_ context.Context, id string) (*model.Artist, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.artists[id], nil
}

func TestArtistsCachesWithinTTL(t *testing.T) {
	src := &countingSource{artists: map[string]*model.Artist{"a1": {ID: "a1", Name: "Adele"}}}
	c := NewArtists(src, time.Minute)
	clock := time.Unix(1000, 0)
	c.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		got, err := c.GetArtist(context.Background(), "a1")
		if err != nil || got == nil || got.Name != "Adele" {
			t.Fatalf("GetArtist = %+v, %v", got, err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("source calls = %d, want 1", src.calls)
	}

	clock = clock.Add(time.Minute)
	if _, err := c.GetArtist(context.Background(), "a1"); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Fatalf("source calls after expiry = %d, want 2", src.calls)
	}
}

func TestArtistsCachesNotFound(t *testing.T) {
	src := &countingSource{}
	c := NewArtists(src, time.Minute)
	for i := 0; i < 2; i++ {
		got, err := c.GetArtist(context.Background(), "missing")
		if err != nil || got != nil {
			t.Fatalf("GetArtist = %+v, %v", got, err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("source calls = %d, want 1", src.calls)
	}
}

func TestArtistsDoesNotCacheErrors(t *testing.T) {
	src := &countingSource{err: errors.New("upstream down")}
	c := NewArtists(src, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := c.GetArtist(context.Background(), "a1"); err == nil {
			t.Fatal("expected error")
		}
	}
	if src.calls != 2 || c.Len() != 0 {
		t.Fatalf("calls = %d, len = %d", src.calls, c.Len())
	}
}

func TestArtistsPrunesExpired(t *testing.T) {
	src := &countingSource{}
	c := NewArtists(src, time.Minute)
	clock := time.Unix(0, 0)
	c.now = func() time.Time { return clock }
	_, _ = c.GetArtist(context.Background(), "old")
	clock = clock.Add(2 * time.Minute)
	_, _ = c.GetArtist(context.Background(), "new")
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}
