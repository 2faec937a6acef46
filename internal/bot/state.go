package bot

import (
	"sync"

	"github.com/jmagar/musicsave-bot/internal/model"
)

// chatStates holds the pending search kind per chat. Chats never seen default
// to artist search. Entries live until the process exits.
type chatStates struct {
	mu      sync.Mutex
	pending map[int64]model.QueryKind
}

func newChatStates() *chatStates {
	return &chatStates{pending: make(map[int64]model.QueryKind)}
}

func (s *chatStates) Get(chatID int64) model.QueryKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[chatID]
}

func (s *chatStates) Set(chatID int64, kind model.QueryKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[chatID] = kind
}
