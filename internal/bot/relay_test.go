package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jmagar/musicsave-bot/internal/model"
)

type trackingStream struct {
	io.Reader
	closed bool
}

func (s *trackingStream) Close() error {
	s.closed = true
	return nil
}

func TestRelayClosesStreamOnEveryPath(t *testing.T) {
	tests := []struct {
		name    string
		sendErr error
	}{
		{name: "success"},
		{name: "send failure", sendErr: errors.New("too large")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.transport.SendAudioErr = tc.sendErr
			s := &trackingStream{Reader: strings.NewReader("bytes")}

			err := h.bot.Relay(context.Background(), testChat, s, "cap")

			if !s.closed {
				t.Fatal("stream not closed")
			}
			if tc.sendErr == nil {
				if err != nil {
					t.Fatalf("Relay() error: %v", err)
				}
				return
			}
			var se *model.SendError
			if !errors.As(err, &se) || se.Method != "sendAudio" || !errors.Is(err, tc.sendErr) {
				t.Fatalf("expected wrapped SendError, got %v", err)
			}
		})
	}
}
