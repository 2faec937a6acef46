package bot

import (
	"context"
	"fmt"

	"github.com/jmagar/musicsave-bot/internal/callback"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/paginate"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

// resultView is one rendered result page. An empty keyboard means the search
// found nothing and text is the "not found" notice.
type resultView struct {
	text     string
	imageURL string
	keyboard model.Keyboard
}

// renderSearch runs the search described by req and shows page req.Page,
// editing the anchor message in place when there is one.
func (b *Bot) renderSearch(ctx context.Context, trace string, chatID int64, req model.PageRequest) error {
	var (
		view resultView
		err  error
	)
	if req.Kind == model.QueryAlbum {
		view, err = b.albumResults(ctx, req)
	} else {
		view, err = b.artistResults(ctx, trace, req)
	}
	if err != nil {
		return err
	}
	if len(view.keyboard) == 0 {
		_, err := b.transport.SendText(ctx, chatID, view.text, nil)
		return err
	}
	return b.present(ctx, chatID, req, view)
}

func (b *Bot) artistResults(ctx context.Context, trace string, req model.PageRequest) (resultView, error) {
	hits, err := b.catalog.Search(ctx, fmt.Sprintf(`artist:"%s"`, req.Query))
	if err != nil {
		return resultView{}, err
	}
	tracks := make([]model.SearchHit, 0, len(hits))
	for _, h := range hits {
		if h.Kind == model.HitTrack {
			tracks = append(tracks, h)
		}
	}
	page := paginate.BuildPage(tracks, paginate.TrackKey, req.Page, model.PageSize)
	b.metrics.SearchServed(model.QueryArtist.String(), page.Total)
	if page.Total == 0 {
		return resultView{text: fmt.Sprintf(textNoArtistTracks, req.Query)}, nil
	}

	kb := make(model.Keyboard, 0, len(page.Items)+1)
	for _, h := range page.Items {
		label := paginate.TruncateLabel(model.JoinArtists(h.ArtistNames()) + " - " + h.Title)
		kb = append(kb, []model.Button{{Text: label, Data: callback.Track(h.ID)}})
	}
	kb = appendNav(kb, model.QueryArtist, page, req.Query)

	return resultView{
		text:     fmt.Sprintf(textArtistHeader, req.Query, ui.FormatCount(page.Total)),
		imageURL: b.artistImage(ctx, trace, tracks),
		keyboard: kb,
	}, nil
}

// artistImage picks the largest picture of the first artist on the first
// track hit. Lookup failures only cost the picture.
func (b *Bot) artistImage(ctx context.Context, trace string, tracks []model.SearchHit) string {
	for _, h := range tracks {
		if len(h.Artists) == 0 || h.Artists[0].ID == "" {
			continue
		}
		artist, err := b.catalog.GetArtist(ctx, h.Artists[0].ID)
		if err != nil {
			ui.Warnf("[%s] artist image for %s: %v", trace, h.Artists[0].ID, err)
			return ""
		}
		if artist == nil {
			return ""
		}
		return model.LargestImage(artist.Images)
	}
	return ""
}

func (b *Bot) albumResults(ctx context.Context, req model.PageRequest) (resultView, error) {
	hits, err := b.catalog.Search(ctx, fmt.Sprintf(`album:"%s"`, req.Query))
	if err != nil {
		return resultView{}, err
	}
	albums := make([]model.SearchHit, 0, len(hits))
	for _, h := range hits {
		if h.AlbumID != "" {
			albums = append(albums, h)
		}
	}
	page := paginate.BuildPage(albums, paginate.AlbumKey, req.Page, model.PageSize)
	b.metrics.SearchServed(model.QueryAlbum.String(), page.Total)
	if page.Total == 0 {
		return resultView{text: fmt.Sprintf(textNoAlbums, req.Query)}, nil
	}

	kb := make(model.Keyboard, 0, len(page.Items)+1)
	for _, h := range page.Items {
		label := paginate.TruncateLabel(model.JoinArtists(h.ArtistNames()) + " - " + h.AlbumName)
		kb = append(kb, []model.Button{{Text: label, Data: callback.Album(h.AlbumID)}})
	}
	kb = appendNav(kb, model.QueryAlbum, page, req.Query)

	return resultView{
		text:     fmt.Sprintf(textAlbumsHeader, ui.FormatCount(page.Total), req.Query, page.Index+1),
		keyboard: kb,
	}, nil
}

// appendNav adds the prev/next row when there is anywhere to go.
func appendNav(kb model.Keyboard, kind model.QueryKind, page model.Page[model.SearchHit], query string) model.Keyboard {
	var nav []model.Button
	if page.HasPrev {
		nav = append(nav, model.Button{Text: labelPrev, Data: callback.ForPage(kind, page.Index-1, query)})
	}
	if page.HasNext {
		nav = append(nav, model.Button{Text: labelNext, Data: callback.ForPage(kind, page.Index+1, query)})
	}
	if len(nav) == 0 {
		return kb
	}
	return append(kb, nav)
}

// present shows view. An anchored page replaces the anchor: a picture can
// only be added by deleting the anchor and sending a photo, a photo anchor
// keeps its picture and gets a new caption, a text anchor is edited in place.
func (b *Bot) present(ctx context.Context, chatID int64, req model.PageRequest, view resultView) error {
	if !req.Anchored() {
		if view.imageURL != "" {
			_, err := b.transport.SendPhoto(ctx, chatID, view.imageURL, view.text, view.keyboard)
			return err
		}
		_, err := b.transport.SendText(ctx, chatID, view.text, view.keyboard)
		return err
	}

	switch {
	case view.imageURL != "" && !req.AnchorHasPhoto:
		if err := b.transport.DeleteMessage(ctx, chatID, req.AnchorMessageID); err != nil {
			ui.Warnf("delete message %d in chat %d: %v", req.AnchorMessageID, chatID, err)
		}
		_, err := b.transport.SendPhoto(ctx, chatID, view.imageURL, view.text, view.keyboard)
		return err
	case req.AnchorHasPhoto:
		return b.transport.EditCaption(ctx, chatID, req.AnchorMessageID, view.text, view.keyboard)
	default:
		return b.transport.EditText(ctx, chatID, req.AnchorMessageID, view.text, view.keyboard)
	}
}
