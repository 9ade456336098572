package wordcount

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/wordfreq/wordcount/alloc"
	"github.com/joshuapare/wordfreq/wordcount/arena"
	"github.com/joshuapare/wordfreq/wordcount/table"
)

// Counter counts words within a byte budget.
//
// The Counter owns its State, Arena and Table. Table slots refer into the
// arena, and both are released together by Close.
type Counter struct {
	st  *alloc.State
	ar  *arena.Arena
	tab *table.Table

	maxWord int
	total   int
	basis   uint32

	scanMode ScanBufferMode
	scanBuf  []byte // resident scan buffer, nil in stack mode
	tok      tokenizer

	closed bool
}

// Open returns a Counter with default limits and no budget.
// maxWord is clamped to [MinWord, MaxWordLimit]; 0 selects DefaultMaxWord.
func Open(maxWord int) (*Counter, error) {
	return OpenWithLimits(maxWord, nil)
}

// OpenWithLimits returns a Counter configured by lim (nil for defaults).
//
// In static mode the initial table, first arena block and (resident mode)
// scan buffer are first sized against a scratch copy of the State, so a
// buffer that is too small fails with ErrOutOfMemory before anything is
// carved. Any failure returns a nil Counter and leaves nothing allocated.
func OpenWithLimits(maxWord int, lim *Limits) (*Counter, error) {
	if lim == nil {
		lim = &Limits{}
	}
	if err := lim.validate(); err != nil {
		return nil, err
	}
	mw, err := clampWord(maxWord)
	if err != nil {
		return nil, err
	}

	capacity, blockSize := Tune(lim)
	st, err := lim.newState()
	if err != nil {
		return nil, classify(err)
	}

	b := &builder{
		st:        st,
		maxWord:   mw,
		capacity:  capacity,
		blockSize: max(blockSize, mw),
		scanMode:  lim.ScanBuffer,
		basis:     table.Basis(lim.HashSeed),
	}
	if st.Static() {
		if err := b.dryRun(); err != nil {
			return nil, fmt.Errorf("wordcount: static buffer of %d bytes too small: %w", st.BufferLen(), classify(err))
		}
	}
	c, err := b.build()
	if err != nil {
		return nil, fmt.Errorf("wordcount: open: %w", classify(err))
	}
	return c, nil
}

// builder assembles a Counter. Nothing it allocates escapes unless build
// returns successfully.
type builder struct {
	st        *alloc.State
	maxWord   int
	capacity  int
	blockSize int
	scanMode  ScanBufferMode
	basis     uint32

	ar      *arena.Arena
	tab     *table.Table
	scanBuf []byte
}

// dryRun replays the construction allocations on a scratch State.
func (b *builder) dryRun() error {
	scratch := b.st.Clone()
	tableBytes, ok := table.Bytes(b.capacity)
	if !ok {
		return ErrOutOfMemory
	}
	for _, n := range b.sizes(tableBytes) {
		if _, err := scratch.Alloc(n); err != nil {
			return err
		}
	}
	return nil
}

// sizes lists the construction allocations in the order build makes them.
func (b *builder) sizes(tableBytes int) []int {
	s := []int{b.blockSize, tableBytes}
	if b.scanMode == ScanBufferResident {
		s = append(s, b.maxWord)
	}
	return s
}

func (b *builder) build() (c *Counter, err error) {
	defer func() {
		if err != nil {
			b.discard()
		}
	}()

	if b.ar, err = arena.New(b.st, b.blockSize); err != nil {
		return nil, err
	}
	if b.tab, err = table.New(b.st, b.ar, b.capacity, b.st.Static()); err != nil {
		return nil, err
	}
	if b.scanMode == ScanBufferResident {
		if b.scanBuf, err = b.st.Alloc(b.maxWord); err != nil {
			return nil, err
		}
	}

	c = &Counter{
		st:       b.st,
		ar:       b.ar,
		tab:      b.tab,
		maxWord:  b.maxWord,
		basis:    b.basis,
		scanMode: b.scanMode,
		scanBuf:  b.scanBuf,
	}
	if c.scanBuf != nil {
		c.tok.buf = c.scanBuf
	} else {
		c.tok.buf = c.tok.stack[:c.maxWord]
	}
	return c, nil
}

// discard releases whatever build allocated, newest first.
func (b *builder) discard() {
	if b.scanBuf != nil {
		b.st.Release(b.scanBuf)
		b.scanBuf = nil
	}
	if b.tab != nil {
		b.tab.Release()
		b.tab = nil
	}
	if b.ar != nil {
		b.ar.Release()
		b.ar = nil
	}
}

// usable returns an error if c cannot be mutated or queried.
func (c *Counter) usable() error {
	if c == nil {
		return fmt.Errorf("%w: nil counter", ErrInvalidArgument)
	}
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Add counts word verbatim: case-sensitive, truncated to MaxWord bytes before
// hashing and storage. Any byte value, NUL included, is part of the word.
// An empty word is a no-op.
func (c *Counter) Add(word string) error {
	if err := c.usable(); err != nil {
		return err
	}
	if len(word) == 0 {
		return nil
	}
	n := min(len(word), c.maxWord)
	key := unsafe.Slice(unsafe.StringData(word), n)
	return c.insert(key, table.Sum(c.basis, key))
}

// AddBytes is Add for a byte slice.
func (c *Counter) AddBytes(word []byte) error {
	if err := c.usable(); err != nil {
		return err
	}
	if len(word) == 0 {
		return nil
	}
	key := word[:min(len(word), c.maxWord)]
	return c.insert(key, table.Sum(c.basis, key))
}

// insert counts one occurrence of an already truncated key.
func (c *Counter) insert(key []byte, hash uint32) error {
	if _, err := c.tab.Insert(key, hash); err != nil {
		return classify(err)
	}
	c.total++
	return nil
}

// Scan tokenizes text and counts every word in it. A word is a maximal run
// of ASCII letters, lower-cased; runs longer than MaxWord are consumed but
// only their first MaxWord letters are counted. Every other byte separates
// words. Scan is a word boundary on both sides: a partial word pending from
// a Stream is counted first, and text's final word is counted before
// returning.
//
// On ErrOutOfMemory scanning stops; words before the failing one are counted.
func (c *Counter) Scan(text []byte) error {
	if err := c.usable(); err != nil {
		return err
	}
	if len(text) == 0 {
		return nil
	}
	if err := c.flush(); err != nil {
		return err
	}
	if _, err := c.feed(text); err != nil {
		return err
	}
	return c.flush()
}

// Close releases the arena, table and scan buffer through the State. It is
// safe to call on a nil or already closed Counter. Words obtained from
// Results, Top or a Cursor are invalid afterwards.
func (c *Counter) Close() error {
	if c == nil || c.closed {
		return nil
	}
	c.closed = true
	c.tok.reset()
	c.tok.buf = nil
	if c.scanBuf != nil {
		c.st.Release(c.scanBuf)
		c.scanBuf = nil
	}
	c.ar.Release()
	c.tab.Release()
	return nil
}

// Total returns the number of words counted, duplicates included.
// It is 0 for a nil or closed Counter.
func (c *Counter) Total() int {
	if c == nil || c.closed {
		return 0
	}
	return c.total
}

// Unique returns the number of distinct words. It is 0 for a nil or closed Counter.
func (c *Counter) Unique() int {
	if c == nil || c.closed {
		return 0
	}
	return c.tab.Len()
}

// MaxWord returns the effective maximum word length.
func (c *Counter) MaxWord() int {
	if c == nil {
		return 0
	}
	return c.maxWord
}

// ScanBuffer returns the scan buffer mode the counter was built with.
func (c *Counter) ScanBuffer() ScanBufferMode {
	if c == nil {
		return DefaultScanBuffer
	}
	return c.scanMode
}

// Stats is a snapshot of a counter's resource usage.
type Stats struct {
	BytesUsed  int  // bytes charged to the State
	BytesLimit int  // 0 = unlimited
	Capacity   int  // table slots
	Blocks     int  // arena blocks
	BlockSize  int  // configured arena block size
	Static     bool // static-buffer mode
	Total      int
	Unique     int
}

// Stats returns usage figures. A nil or closed Counter yields a zero Stats.
func (c *Counter) Stats() Stats {
	if c == nil || c.closed {
		return Stats{}
	}
	return Stats{
		BytesUsed:  c.st.Used(),
		BytesLimit: c.st.Limit(),
		Capacity:   c.tab.Capacity(),
		Blocks:     c.ar.Blocks(),
		BlockSize:  c.ar.BlockSize(),
		Static:     c.st.Static(),
		Total:      c.total,
		Unique:     c.tab.Len(),
	}
}
