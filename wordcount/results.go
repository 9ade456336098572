package wordcount

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
	"unsafe"
)

// WordCount is one word and its count. Word aliases the counter's arena and
// is valid until the Counter is closed; clone it to keep it longer.
type WordCount struct {
	Word  string
	Count int
}

// Results returns every word with its count, sorted by count descending and
// then by word ascending (bytewise). The slice is allocated on the Go heap
// and is not charged to the counter's budget. An empty counter yields an
// empty, non-nil slice.
func (c *Counter) Results() ([]WordCount, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}

	if err := c.tab.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	out := make([]WordCount, 0, c.tab.Len())
	cur := c.Cursor()
	for {
		wc, ok := cur.Next()
		if !ok {
			break
		}
		out = append(out, wc)
	}
	if len(out) != c.tab.Len() {
		return nil, fmt.Errorf("%w: collected %d words, table holds %d", ErrInternal, len(out), c.tab.Len())
	}
	sortResults(out)
	return out, nil
}

// Top returns the n most frequent words in Results order. n <= 0 or n past
// the number of words returns them all.
func (c *Counter) Top(n int) ([]WordCount, error) {
	res, err := c.Results()
	if err != nil {
		return nil, err
	}
	if n > 0 && n < len(res) {
		res = res[:n:n]
	}
	return res, nil
}

func sortResults(r []WordCount) {
	slices.SortFunc(r, func(a, b WordCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return strings.Compare(a.Word, b.Word)
	})
}

// Cursor walks the table in physical slot order without allocating. The
// order is unrelated to insertion or frequency. Mutating the counter while a
// cursor is in use gives unspecified results.
type Cursor struct {
	c   *Counter
	idx int
}

// Cursor returns a cursor positioned before the first word.
func (c *Counter) Cursor() Cursor {
	return Cursor{c: c}
}

// Next returns the next word, or false when the walk is done or the
// counter is nil or closed.
func (cur *Cursor) Next() (WordCount, bool) {
	c := cur.c
	if c == nil || c.closed {
		return WordCount{}, false
	}
	for cur.idx < c.tab.Capacity() {
		i := cur.idx
		cur.idx++
		key := c.tab.Key(i)
		if key == nil {
			continue
		}
		return WordCount{
			Word:  unsafe.String(unsafe.SliceData(key), len(key)),
			Count: int(c.tab.At(i).Count),
		}, true
	}
	return WordCount{}, false
}

// All iterates over every word and count in cursor order.
func (c *Counter) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		cur := c.Cursor()
		for {
			wc, ok := cur.Next()
			if !ok || !yield(wc.Word, wc.Count) {
				return
			}
		}
	}
}
