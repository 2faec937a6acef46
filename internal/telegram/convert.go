package telegram

import (
	"github.com/google/uuid"
	"github.com/jmagar/musicsave-bot/internal/model"
)

// ToModel converts a wire update. ok is false for updates the bot has no
// use for, such as edited messages or inline-mode callbacks without a
// message.
func ToModel(u Update) (model.Update, bool) {
	out := model.Update{TraceID: uuid.NewString()}
	switch {
	case u.CallbackQuery != nil:
		cb := u.CallbackQuery
		if cb.Message == nil {
			return out, false
		}
		out.Callback = &model.CallbackEvent{
			ID:              cb.ID,
			ChatID:          cb.Message.Chat.ID,
			OriginMessageID: cb.Message.MessageID,
			OriginHasPhoto:  len(cb.Message.Photo) > 0,
			Data:            cb.Data,
		}
	case u.Message != nil:
		m := u.Message
		out.Message = &model.TextMessage{
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
			Text:      m.Text,
			Kind:      messageKind(m),
		}
	default:
		return out, false
	}
	return out, true
}

func messageKind(m *Message) model.MessageKind {
	switch {
	case m.Text != "":
		return model.MessageText
	case m.Audio != nil:
		return model.MessageAudio
	case m.Voice != nil:
		return model.MessageVoice
	case m.Document != nil:
		return model.MessageDocument
	default:
		return model.MessageOther
	}
}
