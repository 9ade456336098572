// Package buf contains overflow-safe size arithmetic and bounds helpers
// shared by the allocation layers.
package buf

import "math"

// AddSize adds two non-negative sizes, returning ok = false when either
// operand is negative or the sum would overflow int.
func AddSize(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// MulSize multiplies two non-negative sizes, returning ok = false when either
// operand is negative or the product would overflow int.
// This is the check behind every count * elementSize computation.
func MulSize(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// Padding returns the number of bytes needed to advance off to the next
// multiple of align. align must be a power of two.
//
// Example:
//
//	Padding(0, 8)  = 0
//	Padding(1, 8)  = 7
//	Padding(8, 8)  = 0
//	Padding(13, 8) = 3
func Padding(off, align int) int {
	return (align - (off & (align - 1))) & (align - 1)
}

// AlignUp rounds n up to the next multiple of align (a power of two),
// returning ok = false on overflow.
func AlignUp(n, align int) (int, bool) {
	return AddSize(n, Padding(n, align))
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddSize(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end:end], true
}

// NextPow2 returns the smallest power of two >= n (1 for n <= 1),
// or ok = false when that power does not fit in int.
func NextPow2(n int) (int, bool) {
	p := 1
	for p < n {
		if p > math.MaxInt/2 {
			return 0, false
		}
		p <<= 1
	}
	return p, true
}

// PrevPow2 returns the largest power of two <= n, or 0 when n < 1.
func PrevPow2(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p <= n/2 {
		p <<= 1
	}
	return p
}
