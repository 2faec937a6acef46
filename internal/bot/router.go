package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/jmagar/musicsave-bot/internal/callback"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/notify"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

// HandleUpdate processes one inbound update. It never panics and never
// returns an error: failures are logged and, where the user is waiting on
// an answer, reported with one chat message.
func (b *Bot) HandleUpdate(ctx context.Context, upd model.Update) {
	if upd.TraceID == "" {
		upd.TraceID = uuid.NewString()
	}
	var chatID int64
	switch {
	case upd.Callback != nil:
		chatID = upd.Callback.ChatID
		b.metrics.UpdateReceived("callback")
	case upd.Message != nil:
		chatID = upd.Message.ChatID
		b.metrics.UpdateReceived("message")
	default:
		ui.Debugf("[%s] ignoring empty update", upd.TraceID)
		return
	}

	defer b.recoverPanic(ctx, upd.TraceID, chatID)

	if upd.Callback != nil {
		b.handleCallback(ctx, upd.TraceID, upd.Callback)
		return
	}
	b.handleMessage(ctx, upd.TraceID, upd.Message)
}

func (b *Bot) recoverPanic(ctx context.Context, trace string, chatID int64) {
	r := recover()
	if r == nil {
		return
	}
	b.metrics.HandlerPanic()
	ui.Errorf("[%s] handler panic: %v\n%s", trace, r, debug.Stack())
	b.say(ctx, trace, chatID, textGenericError)
	if b.notify != nil {
		msg := fmt.Sprintf("trace %s, chat %d: %v", trace, chatID, r)
		if err := b.notify(ctx, "musicsave handler panic", msg, notify.PriorityError); err != nil {
			ui.Warnf("[%s] alert failed: %v", trace, err)
		}
	}
}

// say sends a plain text message and logs delivery failures.
func (b *Bot) say(ctx context.Context, trace string, chatID int64, text string) {
	if _, err := b.transport.SendText(ctx, chatID, text, nil); err != nil {
		ui.Errorf("[%s] send to chat %d failed: %v", trace, chatID, err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, trace string, msg *model.TextMessage) {
	switch msg.Kind {
	case model.MessageText:
	case model.MessageAudio, model.MessageVoice, model.MessageDocument:
		b.say(ctx, trace, msg.ChatID, textUseSearch)
		return
	default:
		b.say(ctx, trace, msg.ChatID, textTextOnly)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	if strings.HasPrefix(text, "/") {
		if _, err := b.transport.SendText(ctx, msg.ChatID, textChooseSearch, searchTypeKeyboard()); err != nil {
			ui.Errorf("[%s] send search keyboard: %v", trace, err)
		}
		return
	}

	kind := b.state.Get(msg.ChatID)
	ui.Infof("[%s] chat %d: %s search %q", trace, msg.ChatID, kind, text)
	req := model.PageRequest{Kind: kind, Query: text}
	if err := b.renderSearch(ctx, trace, msg.ChatID, req); err != nil {
		ui.Errorf("[%s] %s search %q: %v", trace, kind, text, err)
		b.say(ctx, trace, msg.ChatID, textSearchFailed)
	}
}

func searchTypeKeyboard() model.Keyboard {
	return model.Keyboard{{
		{Text: labelArtistSearch, Data: callback.SearchArtist()},
		{Text: labelAlbumSearch, Data: callback.SearchAlbum()},
	}}
}

func (b *Bot) handleCallback(ctx context.Context, trace string, cb *model.CallbackEvent) {
	if err := b.transport.AckCallback(ctx, cb.ID); err != nil {
		ui.Warnf("[%s] ack callback %s: %v", trace, cb.ID, err)
	}

	tok, err := callback.Decode(cb.Data)
	if err != nil {
		ui.Warnf("[%s] %v", trace, err)
		return
	}
	b.metrics.CallbackDispatched(tok.Verb.String())
	ui.Debugf("[%s] chat %d: callback %s", trace, cb.ChatID, cb.Data)

	switch tok.Verb {
	case callback.VerbSearchArtist:
		b.state.Set(cb.ChatID, model.QueryArtist)
		b.say(ctx, trace, cb.ChatID, textEnterArtist)
	case callback.VerbSearchAlbum:
		b.state.Set(cb.ChatID, model.QueryAlbum)
		b.say(ctx, trace, cb.ChatID, textEnterAlbum)
	case callback.VerbTrack:
		b.playTrack(ctx, trace, cb.ChatID, tok.ID)
	case callback.VerbAlbum:
		if err := b.showAlbum(ctx, cb.ChatID, tok.ID); err != nil {
			ui.Errorf("[%s] album %s: %v", trace, tok.ID, err)
			b.say(ctx, trace, cb.ChatID, textAlbumFailed)
		}
	case callback.VerbPage, callback.VerbAlbumPage:
		req := model.PageRequest{
			Kind:            tok.QueryKind(),
			Query:           tok.Query,
			Page:            tok.Page,
			AnchorMessageID: cb.OriginMessageID,
			AnchorHasPhoto:  cb.OriginHasPhoto,
		}
		if err := b.renderSearch(ctx, trace, cb.ChatID, req); err != nil {
			ui.Errorf("[%s] page %d of %s search %q: %v", trace, tok.Page, req.Kind, tok.Query, err)
			b.say(ctx, trace, cb.ChatID, textSearchFailed)
		}
	}
}
