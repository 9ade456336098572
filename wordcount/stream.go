package wordcount

import (
	"errors"
	"fmt"
	"io"
)

// Stream feeds a Counter chunk by chunk. Words split across Write calls are
// joined; Flush or Close ends the pending word.
//
// A Stream uses the counter's only tokenizer, so at most one Stream should be
// open per Counter, and Scan or Add calls in between end the pending word
// (Scan) or are counted independently (Add).
type Stream struct {
	c      *Counter
	closed bool
}

var _ io.WriteCloser = (*Stream)(nil)

// NewStream returns a Stream over c.
func (c *Counter) NewStream() *Stream {
	return &Stream{c: c}
}

// Write tokenizes p. On failure n is the number of bytes consumed before the
// failing word ended.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.c.usable(); err != nil {
		return 0, err
	}
	return s.c.feed(p)
}

// Flush counts the pending partial word.
func (s *Stream) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.c.usable(); err != nil {
		return err
	}
	return s.c.flush()
}

// Discard drops the pending partial word without counting it.
func (s *Stream) Discard() {
	if !s.closed && s.c != nil {
		s.c.tok.reset()
	}
}

// Close flushes the pending word and detaches the Stream. Closing twice is
// a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	err := s.Flush()
	s.closed = true
	if errors.Is(err, ErrClosed) {
		// The counter was closed underneath us; nothing is pending.
		return nil
	}
	return err
}

// ReadFrom tokenizes everything r yields, treating the start and the end of
// r as word boundaries. It implements io.ReaderFrom.
func (c *Counter) ReadFrom(r io.Reader) (int64, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	if err := c.flush(); err != nil {
		return 0, err
	}
	s := c.NewStream()
	n, err := io.Copy(s, r)
	if err != nil {
		s.Discard()
		return n, fmt.Errorf("wordcount: stream: %w", err)
	}
	return n, s.Close()
}
