package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is the root of every allocation failure: budget exceeded,
	// static buffer exhausted, or the underlying allocator refusing a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBudget indicates the request would push usage past the byte limit.
	ErrBudget = fmt.Errorf("%w: byte budget exceeded", ErrOutOfMemory)

	// ErrBufferExhausted indicates the static buffer has no room left for the request.
	ErrBufferExhausted = fmt.Errorf("%w: static buffer exhausted", ErrOutOfMemory)

	// ErrBadRegion indicates the allocator returned a short or misaligned region.
	ErrBadRegion = fmt.Errorf("%w: allocator returned an unusable region", ErrOutOfMemory)

	// ErrInjected is returned by FailingAllocator when it is armed.
	ErrInjected = fmt.Errorf("%w: injected failure", ErrOutOfMemory)

	// ErrInvalidSize indicates a zero or negative request size.
	ErrInvalidSize = errors.New("alloc: invalid allocation size")

	// ErrMisaligned indicates the static buffer does not start on an Align boundary.
	ErrMisaligned = errors.New("alloc: static buffer is misaligned")
)
