// Package table implements the word-count hash table.
//
// The table uses open addressing with linear probing and never deletes, so
// there are no tombstones. Slots store a 32-bit FNV-1a hash, the key length,
// a count, and a (block, offset) reference into the arena that holds the key
// bytes. A key matches a slot only when hash, length and bytes are all equal.
//
// Growth happens before a new key would take the load factor to 0.7: the
// slot array is doubled through the alloc.State and every occupied slot is
// rehashed. Fixed tables (static-buffer mode) report ErrTableFull instead.
package table
