package wordcount

import (
	"errors"
	"fmt"

	"github.com/joshuapare/wordfreq/wordcount/alloc"
	"github.com/joshuapare/wordfreq/wordcount/arena"
	"github.com/joshuapare/wordfreq/wordcount/table"
)

var (
	// ErrInvalidArgument indicates a bad argument or a counter that cannot be used.
	ErrInvalidArgument = errors.New("wordcount: invalid argument")

	// ErrOutOfMemory indicates an allocation failure: allocator refusal, budget
	// exceeded, static buffer exhausted, or a fixed table or arena at capacity.
	// It is the same value as alloc.ErrOutOfMemory.
	ErrOutOfMemory = alloc.ErrOutOfMemory

	// ErrInternal indicates a failed consistency check. It points at a bug,
	// not at the input.
	ErrInternal = errors.New("wordcount: internal inconsistency")

	// ErrClosed is returned by operations on a closed counter.
	ErrClosed = fmt.Errorf("%w: counter is closed", ErrInvalidArgument)

	// ErrMisaligned indicates a static buffer not aligned to alloc.Align.
	ErrMisaligned = fmt.Errorf("%w: static buffer is misaligned", ErrInvalidArgument)
)

// classify maps a lower-layer error onto the package taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOutOfMemory),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInternal):
		return err
	case errors.Is(err, alloc.ErrMisaligned):
		return fmt.Errorf("%w: %w", ErrMisaligned, err)
	case errors.Is(err, alloc.ErrInvalidSize),
		errors.Is(err, arena.ErrTooLarge),
		errors.Is(err, table.ErrCapacity),
		errors.Is(err, table.ErrKey):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
