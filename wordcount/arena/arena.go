package arena

import (
	"math"

	"github.com/joshuapare/wordfreq/internal/buf"
	"github.com/joshuapare/wordfreq/wordcount/alloc"
)

// MaxBlockSize is the largest block an arena will create. Offsets inside a
// block are stored as uint32.
const MaxBlockSize = math.MaxUint32

// Ref addresses a range inside the arena.
type Ref struct {
	Block uint32 // index in the block chain
	Off   uint32 // byte offset inside the block
}

// Arena is a chain of bump blocks obtained through an alloc.State.
type Arena struct {
	st        *alloc.State
	blocks    [][]byte // full block regions, newest last
	cur       int      // bump cursor inside the tail block
	blockSize int
}

// New creates an arena and allocates its first block of blockSize bytes.
// On failure nothing is left allocated.
func New(st *alloc.State, blockSize int) (*Arena, error) {
	if blockSize <= 0 {
		return nil, alloc.ErrInvalidSize
	}
	if uint64(blockSize) > MaxBlockSize {
		return nil, ErrTooLarge
	}
	first, err := st.Alloc(blockSize)
	if err != nil {
		return nil, err
	}
	return &Arena{
		st:        st,
		blocks:    [][]byte{first},
		blockSize: blockSize,
	}, nil
}

// Alloc returns a zeroed range of n bytes aligned to alloc.Align, with the
// Ref that addresses it. On failure the arena is unchanged.
func (a *Arena) Alloc(n int) (Ref, []byte, error) {
	if n <= 0 {
		return Ref{}, nil, alloc.ErrInvalidSize
	}
	if len(a.blocks) == 0 {
		return Ref{}, nil, ErrFull
	}

	// Fast path: tail block.
	tail := a.blocks[len(a.blocks)-1]
	pad := buf.Padding(a.cur, alloc.Align)
	if avail := len(tail) - a.cur; avail >= pad && avail-pad >= n {
		off := a.cur + pad
		a.cur = off + n
		b := tail[off:a.cur:a.cur]
		clear(b)
		return Ref{Block: uint32(len(a.blocks) - 1), Off: uint32(off)}, b, nil
	}

	if a.st.Static() {
		return Ref{}, nil, ErrFull
	}
	if uint64(len(a.blocks)) >= math.MaxUint32 {
		return Ref{}, nil, ErrFull
	}

	need, ok := buf.AddSize(n, alloc.Align)
	if !ok || uint64(need) > MaxBlockSize {
		return Ref{}, nil, ErrTooLarge
	}
	size := max(need, a.blockSize)

	blk, err := a.st.Alloc(size)
	if err != nil {
		return Ref{}, nil, err
	}
	a.blocks = append(a.blocks, blk)
	a.cur = n
	return Ref{Block: uint32(len(a.blocks) - 1)}, blk[:n:n], nil
}

// Bytes returns the n bytes addressed by r. It returns nil if the range is
// not inside the arena.
func (a *Arena) Bytes(r Ref, n int) []byte {
	if int(r.Block) >= len(a.blocks) {
		return nil
	}
	b, ok := buf.Slice(a.blocks[r.Block], int(r.Off), n)
	if !ok {
		return nil
	}
	return b
}

// Release returns every block to the State. The arena is empty afterwards
// and every Ref it produced is invalid.
func (a *Arena) Release() {
	for i, b := range a.blocks {
		a.st.Release(b)
		a.blocks[i] = nil
	}
	a.blocks = nil
	a.cur = 0
}

// Blocks returns the number of blocks in the chain.
func (a *Arena) Blocks() int { return len(a.blocks) }

// BlockSize returns the configured block size.
func (a *Arena) BlockSize() int { return a.blockSize }

// Used returns the bytes consumed in the tail block, padding included.
func (a *Arena) Used() int { return a.cur }
