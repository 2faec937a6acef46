package bot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

// Relay uploads stream to chatID as an audio file and closes it on every
// path. Upload failures are *model.SendError.
func (b *Bot) Relay(ctx context.Context, chatID int64, stream io.ReadCloser, caption string) error {
	defer stream.Close()

	filename := fmt.Sprintf("track_%s.mp3", b.now().Format("20060102150405"))
	ui.PrintUpload(fmt.Sprintf("sending %s to chat %d", filename, chatID))
	if err := b.transport.SendAudio(ctx, chatID, stream, filename, caption); err != nil {
		var se *model.SendError
		if errors.As(err, &se) {
			return err
		}
		return &model.SendError{Method: "sendAudio", Err: err}
	}
	return nil
}

// playTrack resolves, fetches and relays one track. Every failure ends in
// exactly one chat message, and nothing is uploaded after a failed fetch.
func (b *Bot) playTrack(ctx context.Context, trace string, chatID int64, trackID string) {
	track, err := b.catalog.GetTrack(ctx, trackID)
	if err != nil {
		b.trackFailed(ctx, trace, chatID, trackID, err)
		return
	}
	if track == nil || track.URL == "" {
		b.metrics.TrackRelayed("not_found", 0)
		b.say(ctx, trace, chatID, textTrackNotFound)
		return
	}

	url, err := b.resolver.ResolveDownloadURL(ctx, track.URL)
	if err != nil {
		b.trackFailed(ctx, trace, chatID, trackID, err)
		return
	}
	ui.PrintDownload(fmt.Sprintf("[%s] fetching track %s", trace, trackID))
	stream, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		b.trackFailed(ctx, trace, chatID, trackID, err)
		return
	}

	if err := b.Relay(ctx, chatID, stream, textHereIsTrack); err != nil {
		b.trackFailed(ctx, trace, chatID, trackID, err)
		return
	}
	b.metrics.TrackRelayed("ok", stream.Session().Transferred)
	ui.PrintSuccess(fmt.Sprintf("[%s] track %s delivered to chat %d", trace, trackID, chatID))
}

func (b *Bot) trackFailed(ctx context.Context, trace string, chatID int64, trackID string, err error) {
	b.metrics.TrackRelayed(failureLabel(err), 0)
	ui.Errorf("[%s] track %s: %v", trace, trackID, err)
	b.say(ctx, trace, chatID, fmt.Sprintf(textTrackFailed, err))
}

func failureLabel(err error) string {
	var (
		de *model.DownloadError
		re *model.ResolutionError
		se *model.SendError
		ce *model.CatalogError
	)
	switch {
	case errors.As(err, &de):
		return "download_error"
	case errors.As(err, &re):
		return "resolve_error"
	case errors.As(err, &se):
		return "send_error"
	case errors.As(err, &ce):
		return "catalog_error"
	}
	return "error"
}
