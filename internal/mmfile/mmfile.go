// Package mmfile maps input files read-only for one-pass scanning.
//
// On unix systems the file is mapped with mmap and advised for sequential
// access; elsewhere it is read into memory. Either way the caller gets one
// contiguous byte slice and must Close the File when done with it.
package mmfile

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooLarge is returned for files that do not fit in the address space.
var ErrTooLarge = errors.New("mmfile: file too large to map")

// File is the contents of an opened input file.
type File struct {
	path   string
	data   []byte
	mapped bool
	unmap  func([]byte) error
}

// Bytes returns the file contents. The slice is read-only when Mapped
// reports true and is invalid after Close.
func (f *File) Bytes() []byte { return f.data }

// Len returns the file size.
func (f *File) Len() int { return len(f.data) }

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Mapped reports whether the contents are a memory mapping rather than a copy.
func (f *File) Mapped() bool { return f.mapped }

// Close releases the mapping. Closing twice is a no-op.
func (f *File) Close() error {
	if f == nil || f.data == nil {
		return nil
	}
	data := f.data
	f.data = nil
	if f.unmap == nil {
		return nil
	}
	if err := f.unmap(data); err != nil {
		return fmt.Errorf("mmfile: unmap %s: %w", f.path, err)
	}
	return nil
}

func checkSize(size int64) error {
	if size < 0 || uint64(size) > math.MaxInt {
		return fmt.Errorf("%w (%d bytes)", ErrTooLarge, size)
	}
	return nil
}
