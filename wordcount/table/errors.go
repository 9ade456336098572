package table

import (
	"errors"
	"fmt"

	"github.com/joshuapare/wordfreq/wordcount/alloc"
)

var (
	// ErrTableFull indicates a new key cannot be placed: the table is fixed and
	// at its load threshold, or probing found neither the key nor an empty slot.
	ErrTableFull = fmt.Errorf("%w: hash table is full", alloc.ErrOutOfMemory)

	// ErrCapacity indicates a capacity that is not a positive power of two,
	// or one whose doubling would overflow.
	ErrCapacity = errors.New("table: invalid capacity")

	// ErrCorrupt indicates the occupied-slot count disagrees with the slots.
	ErrCorrupt = errors.New("table: occupied count mismatch")

	// ErrKey indicates an empty key or one too long for a slot.
	ErrKey = errors.New("table: invalid key length")
)
