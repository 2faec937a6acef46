package telegram

import (
	"testing"

	"github.com/jmagar/musicsave-bot/internal/model"
)

func TestToModel(t *testing.T) {
	tests := []struct {
		name   string
		update Update
		ok     bool
		check  func(t *testing.T, u model.Update)
	}{
		{
			name:   "text message",
			update: Update{UpdateID: 1, Message: &Message{MessageID: 5, Chat: Chat{ID: 7}, Text: "Adele"}},
			ok:     true,
			check: func(t *testing.T, u model.Update) {
				m := u.Message
				if m == nil || m.ChatID != 7 || m.MessageID != 5 || m.Text != "Adele" || m.Kind != model.MessageText {
					t.Fatalf("message = %+v", m)
				}
			},
		},
		{
			name:   "voice message",
			update: Update{UpdateID: 2, Message: &Message{Chat: Chat{ID: 7}, Voice: &File{FileID: "v"}}},
			ok:     true,
			check: func(t *testing.T, u model.Update) {
				if u.Message.Kind != model.MessageVoice {
					t.Fatalf("kind = %v", u.Message.Kind)
				}
			},
		},
		{
			name:   "sticker is other",
			update: Update{UpdateID: 3, Message: &Message{Chat: Chat{ID: 7}}},
			ok:     true,
			check: func(t *testing.T, u model.Update) {
				if u.Message.Kind != model.MessageOther {
					t.Fatalf("kind = %v", u.Message.Kind)
				}
			},
		},
		{
			name: "callback on photo",
			update: Update{UpdateID: 4, CallbackQuery: &CallbackQuery{
				ID:      "cb",
				Data:    "track:abc",
				Message: &Message{MessageID: 9, Chat: Chat{ID: 7}, Photo: []PhotoSize{{FileID: "p"}}},
			}},
			ok: true,
			check: func(t *testing.T, u model.Update) {
				cb := u.Callback
				if cb == nil || cb.ID != "cb" || cb.ChatID != 7 || cb.OriginMessageID != 9 || !cb.OriginHasPhoto || cb.Data != "track:abc" {
					t.Fatalf("callback = %+v", cb)
				}
				if u.TraceID == "" {
					t.Fatal("missing trace id")
				}
			},
		},
		{
			name:   "inline callback without message",
			update: Update{UpdateID: 5, CallbackQuery: &CallbackQuery{ID: "cb"}},
		},
		{
			name:   "empty update",
			update: Update{UpdateID: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToModel(tt.update)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
