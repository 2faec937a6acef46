package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/jmagar/musicsave-bot/internal/model"
)

// SyncBuffer is a bytes.Buffer safe for concurrent writers.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Call is one recorded transport call.
type Call struct {
	Method     string
	ChatID     int64
	MessageID  int
	Text       string
	PhotoURL   string
	Keyboard   model.Keyboard
	CallbackID string
	Filename   string
	Audio      []byte
}

// FakeTransport records every outbound chat call. Message ids start at 100.
type FakeTransport struct {
	mu     sync.Mutex
	calls  []Call
	nextID int

	// SendAudioErr, when set, is returned by SendAudio after the body is drained.
	SendAudioErr error
	// PanicOnSendText makes SendText panic once, for recover tests.
	PanicOnSendText bool
}

func (f *FakeTransport) record(c Call) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextID == 0 {
		f.nextID = 100
	}
	f.nextID++
	f.calls = append(f.calls, c)
	return f.nextID
}

// Calls returns a copy of the recorded calls in order.
func (f *FakeTransport) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Methods returns the recorded method names in order.
func (f *FakeTransport) Methods() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how many calls of method were recorded.
func (f *FakeTransport) Count(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeTransport) SendText(_ context.Context, chatID int64, text string, kb model.Keyboard) (int, error) {
	f.mu.Lock()
	shouldPanic := f.PanicOnSendText
	f.PanicOnSendText = false
	f.mu.Unlock()
	if shouldPanic {
		panic("fake transport: SendText panic")
	}
	return f.record(Call{Method: "SendText", ChatID: chatID, Text: text, Keyboard: kb}), nil
}

func (f *FakeTransport) EditText(_ context.Context, chatID int64, messageID int, text string, kb model.Keyboard) error {
	f.record(Call{Method: "EditText", ChatID: chatID, MessageID: messageID, Text: text, Keyboard: kb})
	return nil
}

func (f *FakeTransport) EditCaption(_ context.Context, chatID int64, messageID int, caption string, kb model.Keyboard) error {
	f.record(Call{Method: "EditCaption", ChatID: chatID, MessageID: messageID, Text: caption, Keyboard: kb})
	return nil
}

func (f *FakeTransport) SendPhoto(_ context.Context, chatID int64, photoURL, caption string, kb model.Keyboard) (int, error) {
	return f.record(Call{Method: "SendPhoto", ChatID: chatID, PhotoURL: photoURL, Text: caption, Keyboard: kb}), nil
}

func (f *FakeTransport) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	f.record(Call{Method: "DeleteMessage", ChatID: chatID, MessageID: messageID})
	return nil
}

func (f *FakeTransport) AckCallback(_ context.Context, callbackID string) error {
	f.record(Call{Method: "AckCallback", CallbackID: callbackID})
	return nil
}

func (f *FakeTransport) SendAudio(_ context.Context, chatID int64, audio io.Reader, filename, caption string) error {
	data, err := io.ReadAll(audio)
	if err != nil {
		return err
	}
	if f.SendAudioErr != nil {
		return f.SendAudioErr
	}
	f.record(Call{Method: "SendAudio", ChatID: chatID, Filename: filename, Text: caption, Audio: data})
	return nil
}

// FakeCatalog serves canned catalog data. Missing entries behave like 404s.
type FakeCatalog struct {
	mu sync.Mutex

	Hits         map[string][]model.SearchHit // keyed by full query string
	Albums       map[string]*model.Album
	AlbumTracks  map[string][]model.Track
	Artists      map[string]*model.Artist
	Tracks       map[string]*model.Track
	DownloadURLs map[string]string
	SearchErr    error

	queries       []string
	artistLookups []string
}

// Queries returns the search queries received so far.
func (f *FakeCatalog) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// ArtistLookups returns the artist ids looked up so far.
func (f *FakeCatalog) ArtistLookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.artistLookups...)
}

func (f *FakeCatalog) Search(_ context.Context, query string) ([]model.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.SearchErr != nil {
		return nil, &model.CatalogError{Op: "search", Err: f.SearchErr}
	}
	return f.Hits[query], nil
}

func (f *FakeCatalog) GetAlbum(_ context.Context, id string) (*model.Album, error) {
	return f.Albums[id], nil
}

func (f *FakeCatalog) GetAlbumTracks(_ context.Context, id string) ([]model.Track, error) {
	return f.AlbumTracks[id], nil
}

func (f *FakeCatalog) GetArtist(_ context.Context, id string) (*model.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artistLookups = append(f.artistLookups, id)
	return f.Artists[id], nil
}

func (f *FakeCatalog) GetTrack(_ context.Context, id string) (*model.Track, error) {
	return f.Tracks[id], nil
}

func (f *FakeCatalog) GetDownloadURL(_ context.Context, ref string) (string, error) {
	return f.DownloadURLs[ref], nil
}
