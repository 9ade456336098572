// Package wordcount counts word occurrences under a byte budget.
//
// A Counter owns three layers, leaf first:
//
//   - alloc.State accounts for every byte and enforces the budget. It either
//     allocates through an injectable alloc.Allocator (dynamic mode) or carves
//     from one caller-supplied buffer (static mode).
//   - arena.Arena stores word bytes in bump-allocated blocks.
//   - table.Table maps words to counts with open addressing.
//
// Words come in two ways. Add takes a word verbatim (case-sensitive,
// truncated to the counter's maximum word length). Scan, Stream and ReadFrom
// tokenize raw bytes: a word is a maximal run of ASCII letters, folded to
// lower case; every other byte is a separator.
//
// # Usage
//
//	c, err := wordcount.Open(0)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	if err := c.Scan(data); err != nil {
//	    return err
//	}
//	top, err := c.Top(10)
//
// Fixed memory:
//
//	buf := make([]byte, 64<<10)
//	c, err := wordcount.OpenWithLimits(0, &wordcount.Limits{StaticBuffer: buf})
//
// # Errors
//
// Every failure wraps one of ErrInvalidArgument, ErrOutOfMemory or
// ErrInternal. After an ErrOutOfMemory from Add or Scan the counter stays
// consistent: Total, Unique, Results and Cursor reflect exactly the words
// inserted before the failure.
//
// # Thread Safety
//
// A Counter is not safe for concurrent use. Independent counters share no
// state. A static buffer must not be given to more than one counter.
package wordcount
