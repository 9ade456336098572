package wordcount

import "github.com/joshuapare/wordfreq/wordcount/table"

// tokenizer holds the word being built across feed calls. A Counter has
// exactly one, shared by Scan, Stream and ReadFrom.
type tokenizer struct {
	buf    []byte // MaxWord bytes: stack[:maxWord] or the resident buffer
	n      int    // letters stored in buf
	inWord bool   // inside a letter run, possibly past MaxWord
	h      table.Hasher

	stack [MaxWordLimit]byte
}

func (t *tokenizer) reset() {
	t.n = 0
	t.inWord = false
}

// isAlpha reports whether c is an ASCII letter. Setting bit 5 maps upper
// case onto lower case; anything below 'a' wraps around past 25.
func isAlpha(c byte) bool {
	return (c|0x20)-'a' < 26
}

// feed runs the tokenizer over p, counting every word that ends inside p.
// A run still open at the end of p stays pending for the next feed or flush.
// It returns the number of bytes consumed, which is len(p) unless an insert
// failed.
func (c *Counter) feed(p []byte) (int, error) {
	t := &c.tok
	for i, ch := range p {
		if isAlpha(ch) {
			if !t.inWord {
				t.inWord = true
				t.n = 0
				t.h = table.NewHasher(c.basis)
			}
			if t.n < c.maxWord {
				ch |= 0x20
				t.buf[t.n] = ch
				t.n++
				t.h.Add(ch)
			}
			continue
		}
		if t.inWord {
			if err := c.flush(); err != nil {
				return i, err
			}
		}
	}
	return len(p), nil
}

// flush counts the pending word, if any. The pending state is cleared even
// when the insert fails, so a failed word is dropped rather than retried.
func (c *Counter) flush() error {
	t := &c.tok
	if !t.inWord {
		return nil
	}
	n, h := t.n, t.h.Sum32()
	t.reset()
	return c.insert(t.buf[:n], h)
}
