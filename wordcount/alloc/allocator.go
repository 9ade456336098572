package alloc

import (
	"unsafe"

	"github.com/joshuapare/wordfreq/internal/buf"
)

// Align is the alignment of every region handed out by a State: the strictest
// alignment among the scalar types stored in allocated memory.
const Align = int(max(
	unsafe.Alignof(uintptr(0)),
	unsafe.Alignof(int(0)),
	unsafe.Alignof(uint64(0)),
	unsafe.Alignof((*byte)(nil)),
))

// Allocator is the source of memory for a dynamic-mode State.
//
// Implementations:
//   - HeapAllocator: Go heap, the default
//   - FailingAllocator: fault injection for tests
//
// Alloc must return a region of at least n bytes aligned to Align, or an
// error. Free receives exactly the slices previously returned by Alloc.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap. Free is left to the garbage collector.
type HeapAllocator struct{}

// Alloc returns a zeroed region of n bytes. The backing array is rounded up
// to Align so the runtime's tiny-object allocator cannot hand back an
// unaligned address for small requests.
func (HeapAllocator) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidSize
	}
	size, ok := buf.AlignUp(n, Align)
	if !ok {
		return nil, ErrOutOfMemory
	}
	return make([]byte, size)[:n:n], nil
}

// Free implements Allocator.
func (HeapAllocator) Free([]byte) {}

// FailingAllocator wraps another allocator and fails the FailAt-th call to
// Alloc (1-based). With Persistent set, every call from FailAt onwards fails.
// A FailAt of 0 disables injection.
type FailingAllocator struct {
	Base       Allocator
	FailAt     int
	Persistent bool

	calls int
	live  int
}

// NewFailing returns a FailingAllocator over the heap that fails call n.
func NewFailing(n int) *FailingAllocator {
	return &FailingAllocator{FailAt: n}
}

// Alloc implements Allocator.
func (f *FailingAllocator) Alloc(n int) ([]byte, error) {
	f.calls++
	if f.FailAt > 0 && (f.calls == f.FailAt || (f.Persistent && f.calls > f.FailAt)) {
		return nil, ErrInjected
	}
	base := f.Base
	if base == nil {
		base = HeapAllocator{}
	}
	b, err := base.Alloc(n)
	if err == nil {
		f.live += len(b)
	}
	return b, err
}

// Free implements Allocator.
func (f *FailingAllocator) Free(b []byte) {
	f.live -= len(b)
	if f.Base != nil {
		f.Base.Free(b)
	}
}

// Arm resets the call counter and fails the n-th call from now.
func (f *FailingAllocator) Arm(n int) {
	f.calls = 0
	f.FailAt = n
}

// Disarm turns injection off.
func (f *FailingAllocator) Disarm() {
	f.FailAt = 0
}

// Calls returns the number of Alloc calls since creation or the last Arm.
func (f *FailingAllocator) Calls() int { return f.calls }

// Live returns the number of bytes handed out and not yet freed.
func (f *FailingAllocator) Live() int { return f.live }

// aligned reports whether b starts on an Align boundary.
func aligned(b []byte) bool {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%uintptr(Align) == 0
}

// Compile-time interface checks
var (
	_ Allocator = HeapAllocator{}
	_ Allocator = (*FailingAllocator)(nil)
)
