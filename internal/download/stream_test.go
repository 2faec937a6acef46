package download

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jmagar/musicsave-bot/internal/model"
)

type closeRecorder struct {
	io.Reader
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func newTestStream(body io.Reader, length int64, progress ProgressFunc, now func() time.Time) (*Stream, *closeRecorder) {
	rc := &closeRecorder{Reader: body}
	d := &Downloader{Progress: progress, ProgressInterval: 2 * time.Second, now: now}
	return d.newStream(rc, &model.DownloadSession{ContentLength: length}), rc
}

func TestChunksSplitsAtChunkSize(t *testing.T) {
	data := bytes.Repeat([]byte("a"), model.ChunkSize*2+100)
	s, _ := newTestStream(bytes.NewReader(data), int64(len(data)), nil, time.Now)

	var sizes []int
	for chunk, err := range s.Chunks() {
		if err != nil {
			t.Fatalf("Chunks() error: %v", err)
		}
		sizes = append(sizes, len(chunk))
	}
	want := []int{model.ChunkSize, model.ChunkSize, 100}
	if len(sizes) != len(want) {
		t.Fatalf("chunk sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("chunk sizes = %v, want %v", sizes, want)
		}
	}

	for _, err := range s.Chunks() {
		if !errors.Is(err, ErrStreamConsumed) {
			t.Fatalf("second pass error = %v, want ErrStreamConsumed", err)
		}
	}
}

func TestProgressIsThrottled(t *testing.T) {
	clock := time.Unix(0, 0)
	var reports []int64
	s, _ := newTestStream(strings.NewReader(strings.Repeat("x", 10)), 10,
		func(transferred, total int64) {
			if total != 10 {
				t.Fatalf("total = %d, want 10", total)
			}
			reports = append(reports, transferred)
		},
		func() time.Time { return clock })

	buf := make([]byte, 1)
	for range 3 {
		_, _ = s.Read(buf)
		clock = clock.Add(time.Second)
	}
	// t=0 read, t=1 read, t=2 read -> one report at t=2
	if len(reports) != 1 || reports[0] != 3 {
		t.Fatalf("reports = %v, want [3]", reports)
	}
	clock = clock.Add(500 * time.Millisecond)
	_, _ = s.Read(buf)
	if len(reports) != 1 {
		t.Fatalf("reported again within interval: %v", reports)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s, rc := newTestStream(strings.NewReader("x"), 1, nil, time.Now)
	_ = s.Close()
	_ = s.Close()
	if rc.closed != 1 {
		t.Fatalf("underlying Close called %d times, want 1", rc.closed)
	}
}

func TestWriteToPropagatesReadError(t *testing.T) {
	boom := errors.New("connection reset")
	s, _ := newTestStream(io.MultiReader(strings.NewReader("abc"), &failingReader{err: boom}), -1, nil, time.Now)
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	if !errors.Is(err, boom) {
		t.Fatalf("WriteTo() error = %v, want %v", err, boom)
	}
	if n != 3 || buf.String() != "abc" {
		t.Fatalf("wrote %d bytes %q", n, buf.String())
	}
}

type failingReader struct{ err error }

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }
