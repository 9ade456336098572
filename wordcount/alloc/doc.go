// Package alloc provides the byte-budget accounting layer that every internal
// allocation of a word counter goes through.
//
// # Overview
//
// A State hands out zeroed, aligned byte regions and keeps a running total of
// the bytes it has handed out. The higher layers (the arena that stores word
// bytes and the hash table's slot array) are written once against State and
// are budget-correct in both operating modes.
//
// # Modes
//
// ModeDynamic: regions come from an injectable Allocator (HeapAllocator by
// default). Release gives a region back and credits the budget.
//
//	st := alloc.NewDynamic(nil, 1<<20) // heap, 1 MiB budget
//	b, err := st.Alloc(4096)
//	if err != nil {
//	    return err // wraps alloc.ErrOutOfMemory
//	}
//	defer st.Release(b)
//
// ModeStatic: regions are carved from one caller-supplied buffer with a bump
// cursor. Release is a no-op; bytes inside the buffer are never reused and
// the cursor only moves forward. Alignment padding counts against the
// budget, which makes the limit a strict cap on buffer consumption.
//
//	backing := make([]byte, 64<<10)
//	st, err := alloc.NewStatic(backing, 0)
//
// # Dry runs
//
// Clone returns a scratch State that performs all of the arithmetic of Alloc
// without touching memory. Construction paths use it to prove that a set of
// allocations fits before committing any of them.
//
// # Fault injection
//
// FailingAllocator fails a chosen allocation (or every allocation from that
// point on). Tests sweep the failure point across a whole operation to check
// that every failure path leaves the owner consistent.
//
// # Thread Safety
//
// A State is not safe for concurrent use. A static buffer must be owned by
// exactly one State at a time.
package alloc
