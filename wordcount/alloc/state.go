package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/wordfreq/internal/buf"
)

// Mode selects where a State gets its memory from.
type Mode uint8

const (
	// ModeDynamic allocates through an Allocator and supports Release.
	ModeDynamic Mode = iota
	// ModeStatic carves from one fixed buffer and never reuses memory.
	ModeStatic
)

func (m Mode) String() string {
	switch m {
	case ModeDynamic:
		return "dynamic"
	case ModeStatic:
		return "static"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// State tracks every byte an owner has obtained and enforces its limit.
//
// Invariants:
//   - used <= limit whenever limit != 0
//   - ModeStatic: bufUsed <= len(buf), and bufUsed never decreases
type State struct {
	used  int // bytes currently charged; static mode includes padding
	limit int // 0 = unlimited
	mode  Mode

	allocator Allocator // ModeDynamic only

	buf     []byte // ModeStatic only
	bufUsed int

	// dry marks a scratch clone: arithmetic only, no memory is touched.
	dry bool
}

// NewDynamic returns a State that allocates through a (HeapAllocator when nil)
// and refuses to exceed limit bytes in flight. A limit of 0 means unlimited.
func NewDynamic(a Allocator, limit int) *State {
	if a == nil {
		a = HeapAllocator{}
	}
	if limit < 0 {
		limit = 0
	}
	return &State{
		limit:     limit,
		mode:      ModeDynamic,
		allocator: a,
	}
}

// NewStatic returns a State that carves every region out of b.
// The buffer must start on an Align boundary. The limit is clamped to
// len(b); zero or negative means len(b).
//
// The caller hands exclusive ownership of b to the State for its lifetime.
func NewStatic(b []byte, limit int) (*State, error) {
	if len(b) == 0 {
		return nil, ErrInvalidSize
	}
	if !aligned(b) {
		return nil, ErrMisaligned
	}
	if limit <= 0 || limit > len(b) {
		limit = len(b)
	}
	return &State{
		limit: limit,
		mode:  ModeStatic,
		buf:   b,
	}, nil
}

// Alloc returns a zeroed region of exactly n bytes aligned to Align.
// On failure the State is unchanged and the error wraps ErrOutOfMemory
// (or is ErrInvalidSize for n <= 0).
//
// A dry-run clone returns a nil region on success.
func (s *State) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidSize
	}
	if s.mode == ModeStatic {
		return s.carve(n)
	}

	newUsed, ok := buf.AddSize(s.used, n)
	if !ok || (s.limit != 0 && newUsed > s.limit) {
		return nil, ErrBudget
	}
	if s.dry {
		s.used = newUsed
		return nil, nil
	}

	b, err := s.allocator.Alloc(n)
	if err != nil {
		if !errors.Is(err, ErrOutOfMemory) {
			err = fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		}
		return nil, err
	}
	if len(b) < n || !aligned(b) {
		s.allocator.Free(b)
		return nil, ErrBadRegion
	}
	b = b[:n:n]
	clear(b)

	s.used = newUsed
	return b, nil
}

// carve bump-allocates n bytes (plus alignment padding) from the static buffer.
func (s *State) carve(n int) ([]byte, error) {
	pad := buf.Padding(s.bufUsed, Align)

	need, ok := buf.AddSize(pad, n)
	if !ok {
		return nil, ErrBufferExhausted
	}
	end, ok := buf.AddSize(s.bufUsed, need)
	if !ok || end > len(s.buf) {
		return nil, ErrBufferExhausted
	}
	newUsed, ok := buf.AddSize(s.used, need)
	if !ok || (s.limit != 0 && newUsed > s.limit) {
		return nil, ErrBudget
	}

	start := s.bufUsed + pad
	s.bufUsed = end
	s.used = newUsed
	if s.dry {
		return nil, nil
	}

	region := s.buf[start:end:end]
	clear(region)
	return region, nil
}

// Release returns a region obtained from Alloc. It is a no-op in ModeStatic
// and for empty regions. The usage counter is floored at zero.
func (s *State) Release(b []byte) {
	if len(b) == 0 || s.mode == ModeStatic {
		return
	}
	if !s.dry {
		s.allocator.Free(b)
	}
	if s.used >= len(b) {
		s.used -= len(b)
	} else {
		s.used = 0
	}
}

// Clone returns a dry-run copy of s. Allocations on the clone perform the
// same checks and bookkeeping as on s but touch no memory and leave s alone.
func (s *State) Clone() *State {
	c := *s
	c.dry = true
	return &c
}

// Used returns the bytes currently charged against the budget.
func (s *State) Used() int { return s.used }

// Limit returns the byte limit, 0 meaning unlimited.
func (s *State) Limit() int { return s.limit }

// Remaining returns how many more bytes may be charged, or -1 when nothing
// bounds the State. In ModeStatic the space left in the buffer also counts;
// alignment padding can make the usable amount smaller.
func (s *State) Remaining() int {
	left := -1
	if s.limit != 0 {
		left = max(s.limit-s.used, 0)
	}
	if s.mode == ModeStatic {
		room := len(s.buf) - s.bufUsed
		if left < 0 || room < left {
			left = room
		}
	}
	return left
}

// Mode returns the allocation mode.
func (s *State) Mode() Mode { return s.mode }

// Static reports whether the State carves from a fixed buffer.
func (s *State) Static() bool { return s.mode == ModeStatic }

// BufferUsed returns how far the static cursor has advanced (0 in ModeDynamic).
func (s *State) BufferUsed() int { return s.bufUsed }

// BufferLen returns the static buffer length (0 in ModeDynamic).
func (s *State) BufferLen() int { return len(s.buf) }
