package download

import (
	"errors"
	"io"
	"iter"
	"sync"
	"time"

	"github.com/jmagar/musicsave-bot/internal/model"
)

// ErrStreamConsumed is returned when a stream is iterated a second time.
var ErrStreamConsumed = errors.New("download stream already consumed")

// Stream is the lazily read body of a finished redirect chain. It is
// single-pass and cannot be restarted. Close releases the connection and is
// safe to call more than once.
type Stream struct {
	body     io.ReadCloser
	session  model.DownloadSession
	progress ProgressFunc
	interval time.Duration
	now      func() time.Time

	lastReport time.Time
	iterated   bool
	closeOnce  sync.Once
	closeErr   error
}

func (d *Downloader) newStream(body io.ReadCloser, session *model.DownloadSession) *Stream {
	interval := d.ProgressInterval
	if interval <= 0 {
		interval = model.ProgressInterval
	}
	s := &Stream{
		body:     body,
		session:  *session,
		progress: d.Progress,
		interval: interval,
		now:      d.clock,
	}
	s.lastReport = s.now()
	return s
}

// Session returns a snapshot of the transfer state.
func (s *Stream) Session() model.DownloadSession {
	return s.session
}

// ContentLength is the advertised body size, or -1 when unknown.
func (s *Stream) ContentLength() int64 {
	return s.session.ContentLength
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.body.Read(p)
	if n > 0 {
		s.session.Transferred += int64(n)
		s.report()
	}
	return n, err
}

// report emits progress at most once per interval.
func (s *Stream) report() {
	if s.progress == nil {
		return
	}
	now := s.now()
	if now.Sub(s.lastReport) < s.interval {
		return
	}
	s.lastReport = now
	s.progress(s.session.Transferred, s.session.ContentLength)
}

// Chunks yields the body in pieces of at most model.ChunkSize bytes. The
// yielded slice is reused between iterations. A read error is yielded once
// and ends the sequence.
func (s *Stream) Chunks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if s.iterated {
			yield(nil, ErrStreamConsumed)
			return
		}
		s.iterated = true
		buf := make([]byte, model.ChunkSize)
		for {
			n, err := fill(s, buf)
			if n > 0 {
				if !yield(buf[:n], nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// fill reads into buf until it is full or r fails. Unlike io.ReadFull a
// short final chunk ends with io.EOF, so body truncation errors stay visible.
func fill(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteTo copies the remaining body to w in model.ChunkSize pieces.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for chunk, err := range s.Chunks() {
		if err != nil {
			return written, err
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Close releases the underlying body.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
