package wordcount

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/wordfreq/internal/buf"
	"github.com/joshuapare/wordfreq/wordcount/alloc"
	"github.com/joshuapare/wordfreq/wordcount/table"
)

// Word length bounds.
const (
	DefaultMaxWord = 64
	MinWord        = 4
	MaxWordLimit   = 1024
)

// Sizing floors and defaults.
const (
	MinInitCap   = 16
	MinBlockSize = 256

	// DefaultInitCap and DefaultBlockSize are smaller on 32-bit targets.
	DefaultInitCap   = 1024 << (2 * (bits.UintSize / 64))
	DefaultBlockSize = 16384 << (2 * (bits.UintSize / 64))
)

// ScanBufferMode selects where the tokenizer keeps the word being built.
type ScanBufferMode uint8

const (
	// ScanBufferStack keeps the word in a fixed array inside the Counter.
	// It is not charged against the budget.
	ScanBufferStack ScanBufferMode = iota
	// ScanBufferResident allocates a MaxWord-byte buffer through the
	// counter's State, so it counts against the budget and, in static mode,
	// comes out of the static buffer.
	ScanBufferResident
)

// DefaultScanBuffer is the scan buffer mode used when Limits leaves it unset.
const DefaultScanBuffer = ScanBufferStack

func (m ScanBufferMode) String() string {
	switch m {
	case ScanBufferStack:
		return "stack"
	case ScanBufferResident:
		return "resident"
	default:
		return fmt.Sprintf("ScanBufferMode(%d)", uint8(m))
	}
}

// ParseScanBufferMode parses "stack" or "resident".
func ParseScanBufferMode(s string) (ScanBufferMode, error) {
	switch s {
	case "stack", "":
		return ScanBufferStack, nil
	case "resident":
		return ScanBufferResident, nil
	default:
		return 0, fmt.Errorf("%w: unknown scan buffer mode %q", ErrInvalidArgument, s)
	}
}

// Limits configures a Counter. Zero fields mean "library default".
type Limits struct {
	// MaxBytes caps the bytes the counter may hold through its State.
	// In static mode it is clamped to len(StaticBuffer).
	MaxBytes int
	// InitCapacity is the initial table capacity hint.
	InitCapacity int
	// BlockSize is the arena block size hint.
	BlockSize int
	// StaticBuffer, when non-empty, switches the counter to static mode: every
	// internal allocation is carved from it and nothing grows. It must be
	// aligned to alloc.Align and belongs to the counter until Close.
	StaticBuffer []byte
	// HashSeed perturbs the hash. Not a security boundary.
	HashSeed uint64
	// ScanBuffer selects the tokenizer buffer placement.
	ScanBuffer ScanBufferMode
	// Allocator backs dynamic mode. Nil means the Go heap.
	Allocator alloc.Allocator
}

func (l *Limits) validate() error {
	if l.MaxBytes < 0 || l.InitCapacity < 0 || l.BlockSize < 0 {
		return fmt.Errorf("%w: negative size in limits", ErrInvalidArgument)
	}
	if l.ScanBuffer > ScanBufferResident {
		return fmt.Errorf("%w: unknown scan buffer mode %d", ErrInvalidArgument, l.ScanBuffer)
	}
	return nil
}

// static reports whether the limits select static mode.
func (l *Limits) static() bool { return len(l.StaticBuffer) > 0 }

// budget returns the overall byte budget implied by the limits, 0 if none.
// When both MaxBytes and a static buffer are set the smaller wins.
func (l *Limits) budget() int {
	b := l.MaxBytes
	if n := len(l.StaticBuffer); n > 0 && (b == 0 || n < b) {
		b = n
	}
	return b
}

func (l *Limits) newState() (*alloc.State, error) {
	if l.static() {
		return alloc.NewStatic(l.StaticBuffer, l.MaxBytes)
	}
	return alloc.NewDynamic(l.Allocator, l.MaxBytes), nil
}

// Tune derives the initial table capacity and arena block size from lim.
// It is pure and accepts nil.
//
// With a budget, the table may take at most half of it (capacity rounded
// down to a power of two) and the first block at most a quarter of the rest.
// Floors MinInitCap and MinBlockSize apply last, and the capacity is rounded
// up to a power of two.
func Tune(lim *Limits) (capacity, blockSize int) {
	capacity = DefaultInitCap
	blockSize = DefaultBlockSize

	if lim != nil {
		if lim.InitCapacity > 0 {
			capacity = lim.InitCapacity
		}
		if lim.BlockSize > 0 {
			blockSize = lim.BlockSize
		}

		if budget := lim.budget(); budget > 0 {
			tableBudget := budget / 2
			if n, ok := table.Bytes(capacity); tableBudget > 0 && (!ok || n > tableBudget) {
				capacity = buf.PrevPow2(max(tableBudget/table.SlotSize, MinInitCap))
			}

			if maxBlock := (budget - tableBudget) / 4; maxBlock > 0 && blockSize > maxBlock {
				blockSize = maxBlock
			}
		}
	}

	capacity = max(capacity, MinInitCap)
	if p, ok := buf.NextPow2(capacity); ok {
		capacity = p
	} else {
		capacity = buf.PrevPow2(capacity)
	}
	blockSize = max(blockSize, MinBlockSize)
	return capacity, blockSize
}

// clampWord applies the default and bounds to a requested maximum word length.
func clampWord(n int) (int, error) {
	switch {
	case n < 0:
		return 0, fmt.Errorf("%w: negative max word %d", ErrInvalidArgument, n)
	case n == 0:
		return DefaultMaxWord, nil
	default:
		return min(max(n, MinWord), MaxWordLimit), nil
	}
}
