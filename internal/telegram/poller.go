package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/ui"
)

// Handler processes one converted update.
type Handler interface {
	HandleUpdate(ctx context.Context, upd model.Update)
}

// UpdateSource is the part of Client the poller needs.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset, timeout int) ([]Update, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
}

// Poller fetches updates by long polling and hands each one to Handler on
// its own goroutine, so one slow download does not hold up other chats.
type Poller struct {
	Source  UpdateSource
	Handler Handler
	// Timeout is the long-poll timeout in seconds.
	Timeout int
	// ErrorDelay is the pause after a failed poll.
	ErrorDelay time.Duration

	wg sync.WaitGroup
}

// NewPoller returns a poller with a 30 second long-poll timeout.
func NewPoller(src UpdateSource, h Handler) *Poller {
	return &Poller{Source: src, Handler: h, Timeout: 30, ErrorDelay: 2 * time.Second}
}

// Run polls until ctx is cancelled, then waits for in-flight handlers.
// Updates queued while the bot was offline are dropped at start.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.Source.DeleteWebhook(ctx, true); err != nil {
		return err
	}
	defer p.wg.Wait()

	offset := 0
	for {
		if ctx.Err() != nil {
			return nil
		}
		updates, err := p.Source.GetUpdates(ctx, offset, p.Timeout)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			ui.Warnf("getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.ErrorDelay):
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			p.Dispatch(ctx, u)
		}
	}
}

// Dispatch converts u and handles it on a new goroutine. Unusable updates
// are dropped.
func (p *Poller) Dispatch(ctx context.Context, u Update) {
	upd, ok := ToModel(u)
	if !ok {
		ui.Debugf("dropping update %d with nothing to handle", u.UpdateID)
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Handler.HandleUpdate(ctx, upd)
	}()
}

// Wait blocks until every dispatched handler has returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}
