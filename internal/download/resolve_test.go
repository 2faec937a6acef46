package download

import (
	"context"
	"errors"
	"testing"

	"github.com/jmagar/musicsave-bot/internal/model"
)

type fakeURLSource struct {
	urls  map[string]string
	err   error
	calls []string
}

func (f *fakeURLSource) GetDownloadURL(_ context.Context, ref string) (string, error) {
	f.calls = append(f.calls, ref)
	if f.err != nil {
		return "", f.err
	}
	return f.urls[ref], nil
}

func TestResolveDownloadURL(t *testing.T) {
	src := &fakeURLSource{urls: map[string]string{"abc123": "https://cdn.example/abc123.mp3"}}
	r := &Resolver{Catalog: src, CatalogHost: "spotify.com"}
	ctx := context.Background()

	tests := []struct {
		name     string
		ref      string
		want     string
		wantKind model.ResolutionErrorKind
	}{
		{name: "catalog url", ref: "https://open.spotify.com/track/abc123?si=1", want: "https://cdn.example/abc123.mp3"},
		{name: "bare id", ref: "abc123", want: "https://cdn.example/abc123.mp3"},
		{name: "foreign url unchanged", ref: "https://files.example/song.mp3", want: "https://files.example/song.mp3"},
		{name: "unknown catalog id", ref: "https://open.spotify.com/track/zzz", wantKind: model.ResolutionNotFound},
		{name: "not a reference", ref: "hello world", wantKind: model.ResolutionNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.ResolveDownloadURL(ctx, tc.ref)
			if tc.wantKind != 0 {
				var re *model.ResolutionError
				if !errors.As(err, &re) || re.Kind != tc.wantKind {
					t.Fatalf("expected ResolutionError kind %d, got %v", tc.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDownloadURL() error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ResolveDownloadURL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveUpstreamFailure(t *testing.T) {
	boom := errors.New("catalog down")
	r := &Resolver{Catalog: &fakeURLSource{err: boom}, CatalogHost: "spotify.com"}
	_, err := r.ResolveDownloadURL(context.Background(), "abc123")
	var re *model.ResolutionError
	if !errors.As(err, &re) || re.Kind != model.ResolutionUpstream {
		t.Fatalf("expected upstream ResolutionError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatal("upstream cause not wrapped")
	}
}
