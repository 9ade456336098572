package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"

	"github.com/joshuapare/wordfreq/wordcount"
)

func newCounter(t *testing.T) *wordcount.Counter {
	t.Helper()
	c, err := wordcount.Open(0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func counts(t *testing.T, c *wordcount.Counter) map[string]int {
	t.Helper()
	m := map[string]int{}
	for w, n := range c.All() {
		m[w] = n
	}
	return m
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFile(t *testing.T) {
	c := newCounter(t)
	path := writeFile(t, []byte("Alpha beta\nALPHA gamma-beta"))

	res, err := New(Options{}).File(context.Background(), c, path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Name)
	assert.Equal(t, int64(27), res.Bytes)
	assert.Equal(t, 5, res.Words)
	assert.Equal(t, map[string]int{"alpha": 2, "beta": 2, "gamma": 1}, counts(t, c))
}

func TestFile_FilesAreSeparate(t *testing.T) {
	c := newCounter(t)
	l := New(Options{})
	a := writeFile(t, []byte("foo"))
	b := writeFile(t, []byte("bar"))

	_, err := l.File(context.Background(), c, a)
	require.NoError(t, err)
	res, err := l.File(context.Background(), c, b)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Words)
	assert.Equal(t, map[string]int{"foo": 1, "bar": 1}, counts(t, c))
}

func TestFile_Missing(t *testing.T) {
	c := newCounter(t)
	missing := filepath.Join(t.TempDir(), "nope")
	for _, opts := range []Options{{}, {Encoding: mustEncoding(t, "latin1")}} {
		res, err := New(opts).File(context.Background(), c, missing)
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Equal(t, missing, res.Name)
	}
}

func TestFile_Cancelled(t *testing.T) {
	c := newCounter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).File(ctx, c, writeFile(t, []byte("word")))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Total())
}

func TestFile_Encoded(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		data     []byte
		want     map[string]int
	}{
		{
			name:     "utf-16le with BOM",
			encoding: "utf-16le",
			data:     []byte{0xFF, 0xFE, 'h', 0, 'i', 0, ' ', 0, 'H', 0, 'I', 0},
			want:     map[string]int{"hi": 2},
		},
		{
			name:     "utf-16be without BOM",
			encoding: "utf-16be",
			data:     []byte{0, 'o', 0, 'k', 0, ',', 0, 'o', 0, 'k'},
			want:     map[string]int{"ok": 2},
		},
		{
			// 0xE9 is é; after transcoding it is two non-letter bytes.
			name:     "latin1",
			encoding: "latin1",
			data:     []byte("caf\xe9 cafe"),
			want:     map[string]int{"caf": 1, "cafe": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCounter(t)
			l := New(Options{Encoding: mustEncoding(t, tt.encoding)})
			res, err := l.File(context.Background(), c, writeFile(t, tt.data))
			require.NoError(t, err)
			assert.False(t, res.Mapped)
			assert.Equal(t, int64(len(tt.data)), res.Bytes)
			assert.Equal(t, tt.want, counts(t, c))
		})
	}
}

func TestReader_SmallChunks(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	for chunk := 1; chunk <= 8; chunk++ {
		c := newCounter(t)
		l := New(Options{ChunkSize: chunk})
		res, err := l.Reader(context.Background(), c, "text", strings.NewReader(text))
		require.NoError(t, err)
		assert.Equal(t, 9, res.Words, "chunk %d", chunk)
		assert.Equal(t, int64(len(text)), res.Bytes)
		assert.Equal(t, 2, counts(t, c)["the"])
		assert.Equal(t, 1, counts(t, c)["dog"], "last word is counted at EOF")
	}
}

func TestReader_OneByteReads(t *testing.T) {
	c := newCounter(t)
	_, err := New(Options{}).Reader(context.Background(), c, "text",
		iotest.OneByteReader(strings.NewReader("abc def abc")))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"abc": 2, "def": 1}, counts(t, c))
}

func TestReader_ReadErrorDropsPartialWord(t *testing.T) {
	c := newCounter(t)
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("whole part"), iotest.ErrReader(boom))

	res, err := New(Options{}).Reader(context.Background(), c, "broken", r)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, res.Words)
	assert.Equal(t, map[string]int{"whole": 1}, counts(t, c))

	// The next input starts clean.
	_, err = New(Options{}).Reader(context.Background(), c, "next", strings.NewReader("s"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"whole": 1, "s": 1}, counts(t, c))
}

// cancelReader cancels its context after the first read.
type cancelReader struct {
	r      io.Reader
	cancel context.CancelFunc
}

func (cr *cancelReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.cancel()
	return n, err
}

func TestReader_Cancel(t *testing.T) {
	c := newCounter(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &cancelReader{r: strings.NewReader("done pend|ing more words"), cancel: cancel}
	res, err := New(Options{ChunkSize: 9}).Reader(ctx, c, "slow", r)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(9), res.Bytes)
	assert.Equal(t, map[string]int{"done": 1}, counts(t, c), "pending word is dropped")
}

func TestReader_OutOfMemory(t *testing.T) {
	c, err := wordcount.OpenWithLimits(0, &wordcount.Limits{MaxBytes: 4096})
	require.NoError(t, err)
	defer c.Close()

	var text strings.Builder
	for i := range 2000 {
		text.WriteString(strings.Repeat(string(rune('a'+i%26)), 1+i/26))
		text.WriteByte(' ')
	}
	_, err = New(Options{}).Reader(context.Background(), c, "big", strings.NewReader(text.String()))
	require.ErrorIs(t, err, wordcount.ErrOutOfMemory)
	assert.Contains(t, err.Error(), "scan big")
	assert.Positive(t, c.Unique())
}

func TestStdin(t *testing.T) {
	c := newCounter(t)
	res, err := New(Options{}).Stdin(context.Background(), c, strings.NewReader("one two"))
	require.NoError(t, err)
	assert.Equal(t, StdinName, res.Name)
	assert.Equal(t, 2, res.Words)
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "utf-8", "UTF8", " utf-8 "} {
		enc, err := LookupEncoding(name)
		require.NoError(t, err, name)
		assert.Nil(t, enc, name)
	}
	for _, name := range Encodings[1:] {
		enc, err := LookupEncoding(name)
		require.NoError(t, err, name)
		assert.NotNil(t, enc, name)
	}
	_, err := LookupEncoding("ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "utf-16le")
}

func mustEncoding(t *testing.T, name string) encoding.Encoding {
	t.Helper()
	enc, err := LookupEncoding(name)
	require.NoError(t, err)
	return enc
}
