package download

import (
	"context"
	"strings"

	"github.com/jmagar/musicsave-bot/internal/api"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

// DownloadURLSource turns a catalog track id into a direct download URL.
// An unknown id yields "" and no error.
type DownloadURLSource interface {
	GetDownloadURL(ctx context.Context, ref string) (string, error)
}

// Resolver maps a track reference to a URL the Downloader can fetch.
type Resolver struct {
	Catalog     DownloadURLSource
	CatalogHost string
}

// ResolveDownloadURL returns a fetchable URL for ref. Catalog references
// (URLs containing CatalogHost, or bare ids) are looked up by their trailing
// path segment; any other http(s) URL is returned unchanged. Failures are
// *model.ResolutionError.
func (r *Resolver) ResolveDownloadURL(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := api.CheckTrackRef(ref, r.CatalogHost); ok {
		ui.Debugf("resolving catalog track %s", id)
		u, err := r.Catalog.GetDownloadURL(ctx, id)
		if err != nil {
			return "", &model.ResolutionError{Kind: model.ResolutionUpstream, Ref: ref, Err: err}
		}
		if u == "" {
			return "", &model.ResolutionError{Kind: model.ResolutionNotFound, Ref: ref}
		}
		return u, nil
	}
	if api.IsHTTPURL(ref) {
		return ref, nil
	}
	return "", &model.ResolutionError{Kind: model.ResolutionNotFound, Ref: ref}
}
