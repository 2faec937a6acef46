// Package bot implements the chat side of the search and download flow:
// per-chat search mode, paginated result keyboards driven by callback
// tokens, and relaying fetched audio back to the chat.
package bot

import (
	"context"
	"io"
	"time"

	"github.com/jmagar/musicsave-bot/internal/download"
	"github.com/jmagar/musicsave-bot/internal/model"
	"github.com/jmagar/musicsave-bot/internal/notify"
)

// Transport is the outbound half of the chat API. Methods that create a
// message return its id. A nil keyboard sends no reply markup.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, kb model.Keyboard) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb model.Keyboard) error
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string, kb model.Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, kb model.Keyboard) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AckCallback(ctx context.Context, callbackID string) error
	SendAudio(ctx context.Context, chatID int64, audio io.Reader, filename, caption string) error
}

// Catalog is the music catalog. Lookups of unknown ids return a nil result
// (or an empty slice / string) and no error.
type Catalog interface {
	Search(ctx context.Context, query string) ([]model.SearchHit, error)
	GetAlbum(ctx context.Context, id string) (*model.Album, error)
	GetAlbumTracks(ctx context.Context, id string) ([]model.Track, error)
	GetArtist(ctx context.Context, id string) (*model.Artist, error)
	GetTrack(ctx context.Context, id string) (*model.Track, error)
	GetDownloadURL(ctx context.Context, ref string) (string, error)
}

// Fetcher opens a download URL as a stream.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*download.Stream, error)
}

// Metrics receives bot-level counters. All methods must be cheap.
type Metrics interface {
	UpdateReceived(kind string)
	CallbackDispatched(verb string)
	SearchServed(kind string, results int)
	TrackRelayed(result string, bytes int64)
	HandlerPanic()
}

type nopMetrics struct{}

func (nopMetrics) UpdateReceived(string) {}
func (nopMetrics) CallbackDispatched(string) {}
func (nopMetrics) SearchServed(string, int) {}
func (nopMetrics) TrackRelayed(string, int64) {}
func (nopMetrics) HandlerPanic() {}

// Deps are the collaborators a Bot needs. Transport, Catalog and Fetcher are
// required.
type Deps struct {
	Transport   Transport
	Catalog     Catalog
	Fetcher     Fetcher
	CatalogHost string
	Metrics     Metrics
	Notify      notify.NotifyFunc
	// Now stamps relayed file names; defaults to time.Now.
	Now func() time.Time
}

// Bot routes updates. It is safe for concurrent use; the per-chat search
// mode is its only mutable state.
type Bot struct {
	transport Transport
	catalog   Catalog
	resolver  *download.Resolver
	fetcher   Fetcher
	metrics   Metrics
	notify    notify.NotifyFunc
	now       func() time.Time
	state     *chatStates
}

// New returns a Bot wired to deps.
func New(deps Deps) *Bot {
	b := &Bot{
		transport: deps.Transport,
		catalog:   deps.Catalog,
		resolver:  &download.Resolver{Catalog: deps.Catalog, CatalogHost: deps.CatalogHost},
		fetcher:   deps.Fetcher,
		metrics:   deps.Metrics,
		notify:    deps.Notify,
		now:       deps.Now,
		state:     newChatStates(),
	}
	if b.metrics == nil {
		b.metrics = nopMetrics{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// PendingKind returns the search mode plain text will use in chatID.
func (b *Bot) PendingKind(chatID int64) model.QueryKind {
	return b.state.Get(chatID)
}
