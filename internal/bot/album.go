package bot

import (
	"context"
	"fmt"

	"github.com/jmagar/musicsave-bot/internal/callback"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/paginate"
)

// showAlbum sends the album card: the cover (when there is one) with one
// button per track.
func (b *Bot) showAlbum(ctx context.Context, chatID int64, albumID string) error {
	album, err := b.catalog.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	tracks, err := b.catalog.GetAlbumTracks(ctx, albumID)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		_, err := b.transport.SendText(ctx, chatID, textAlbumEmpty, nil)
		return err
	}

	kb := make(model.Keyboard, 0, len(tracks))
	for _, t := range tracks {
		label := paginate.TruncateLabel(model.JoinArtists(t.ArtistNames()) + " - " + t.Title)
		kb = append(kb, []model.Button{{Text: label, Data: callback.Track(t.ID)}})
	}

	name, artists, cover := albumID, "", ""
	if album != nil {
		name = album.Name
		artists = model.JoinArtists(album.ArtistNames())
		cover = model.LargestImage(album.Images)
	}
	text := fmt.Sprintf(textAlbumHeader, name, artists)

	if cover != "" {
		_, err = b.transport.SendPhoto(ctx, chatID, cover, text, kb)
		return err
	}
	_, err = b.transport.SendText(ctx, chatID, text, kb)
	return err
}
