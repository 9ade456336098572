// Package arena provides the word-storage arena used by the counter.
//
// An Arena is an append-only chain of fixed-capacity blocks. Each block is a
// bump allocator: a request is served by aligning the tail block's cursor and
// advancing it. Nothing is ever freed individually; Release hands every block
// back to the owning alloc.State at once.
//
// Memory comes from an alloc.State, so the arena is budget-correct in both
// allocation modes:
//
//   - Dynamic: when the tail block is full a new block of
//     max(n+Align, blockSize) bytes is appended.
//   - Static: the arena is fixed to its first block; a request that does not
//     fit fails with ErrFull.
//
// Allocations are addressed by Ref, a (block, offset) pair. Refs are plain
// integers and carry no Go pointers, so they can be stored in memory that
// the garbage collector does not scan.
package arena
