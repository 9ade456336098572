package arena

import (
	"errors"
	"fmt"

	"github.com/joshuapare/wordfreq/wordcount/alloc"
)

var (
	// ErrFull indicates the arena cannot serve a request without a new block
	// and is not allowed to add one (static mode).
	ErrFull = fmt.Errorf("%w: arena is full", alloc.ErrOutOfMemory)

	// ErrTooLarge indicates a size that does not fit the uint32 addressing of a Ref.
	ErrTooLarge = errors.New("arena: size exceeds block addressing range")
)
