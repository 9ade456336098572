// Package source feeds files and streams into a word counter.
//
// Files are memory-mapped and scanned in one call. Streams (standard input,
// or any file that needs transcoding) are read in fixed-size chunks and fed
// through the counter's Stream, which joins words split across chunks.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/joshuapare/wordfreq/internal/logger"
	"github.com/joshuapare/wordfreq/internal/mmfile"
	"github.com/joshuapare/wordfreq/wordcount"
)

// DefaultChunkSize is the read size for streamed input.
const DefaultChunkSize = 64 << 10

// StdinName is the display name used for standard input.
const StdinName = "<stdin>"

// Options configures a Loader.
type Options struct {
	// Encoding transcodes input to UTF-8 before tokenizing. Nil means the
	// input is used as is.
	Encoding encoding.Encoding
	// ChunkSize is the read size for streams. Zero selects DefaultChunkSize.
	ChunkSize int
}

// Result describes one consumed input.
type Result struct {
	Name   string
	Bytes  int64 // bytes read from the input, before transcoding
	Mapped bool  // contents were memory-mapped
	Words  int   // words added to the counter by this input
}

// Loader feeds inputs into a Counter.
type Loader struct {
	enc   encoding.Encoding
	chunk int
}

// New returns a Loader.
func New(opts Options) *Loader {
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Loader{enc: opts.Encoding, chunk: chunk}
}

// File counts the words of the file at path. Without transcoding the file
// is mapped and scanned in one pass; otherwise it is streamed.
func (l *Loader) File(ctx context.Context, c *wordcount.Counter, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Name: path}, err
	}
	if l.enc != nil {
		f, err := os.Open(path)
		if err != nil {
			return Result{Name: path}, err
		}
		defer f.Close()
		return l.Reader(ctx, c, path, f)
	}

	f, err := mmfile.Open(path)
	if err != nil {
		return Result{Name: path}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.L().Warn("unmap failed", zap.String("path", path), zap.Error(cerr))
		}
	}()

	before := c.Total()
	res := Result{Name: path, Bytes: int64(f.Len()), Mapped: f.Mapped()}
	logger.L().Debug("scanning file",
		zap.String("path", path),
		zap.Int("bytes", f.Len()),
		zap.Bool("mapped", f.Mapped()))

	err = c.Scan(f.Bytes())
	res.Words = c.Total() - before
	if err != nil {
		return res, fmt.Errorf("scan %s: %w", path, err)
	}
	return res, nil
}

// Reader counts the words of r, read in chunks. The context is checked
// between chunks. The pending word is counted at EOF and dropped on error.
func (l *Loader) Reader(ctx context.Context, c *wordcount.Counter, name string, r io.Reader) (Result, error) {
	res := Result{Name: name}
	before := c.Total()

	counted := &countingReader{r: r}
	var src io.Reader = counted
	if l.enc != nil {
		src = transform.NewReader(counted, l.enc.NewDecoder())
	}

	s := c.NewStream()
	buf := make([]byte, l.chunk)
	chunks := 0
	for {
		if err := ctx.Err(); err != nil {
			s.Discard()
			res.Bytes = counted.n
			res.Words = c.Total() - before
			return res, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			chunks++
			if _, err := s.Write(buf[:n]); err != nil {
				s.Discard()
				res.Bytes = counted.n
				res.Words = c.Total() - before
				return res, fmt.Errorf("scan %s: %w", name, err)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			// The input broke off; its last word may be incomplete.
			s.Discard()
			res.Bytes = counted.n
			res.Words = c.Total() - before
			return res, fmt.Errorf("read %s: %w", name, rerr)
		}
	}

	err := s.Close()
	res.Bytes = counted.n
	res.Words = c.Total() - before
	logger.L().Debug("stream done",
		zap.String("name", name),
		zap.Int64("bytes", res.Bytes),
		zap.Int("chunks", chunks))
	if err != nil {
		return res, fmt.Errorf("scan %s: %w", name, err)
	}
	return res, nil
}

// Stdin counts the words of standard input.
func (l *Loader) Stdin(ctx context.Context, c *wordcount.Counter, in io.Reader) (Result, error) {
	return l.Reader(ctx, c, StdinName, in)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
