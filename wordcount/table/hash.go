package table

// FNV-1a parameters for 32-bit output.
const (
	OffsetBasis uint32 = 2166136261
	Prime       uint32 = 16777619
)

// Basis returns the FNV-1a starting value for seed. A 64-bit seed is folded
// to 32 bits so the same seed yields the same table layout on every platform.
// Seed 0 gives the standard offset basis.
func Basis(seed uint64) uint32 {
	return OffsetBasis ^ uint32(seed) ^ uint32(seed>>32)
}

// Hasher computes FNV-1a one byte at a time. It is not cryptographic.
//
// The zero value is not useful; start from NewHasher.
type Hasher struct {
	h uint32
}

// NewHasher returns a Hasher starting at basis.
func NewHasher(basis uint32) Hasher {
	return Hasher{h: basis}
}

// Add folds one byte into the hash.
func (h *Hasher) Add(c byte) {
	h.h ^= uint32(c)
	h.h *= Prime
}

// Sum32 returns the current hash value.
func (h Hasher) Sum32() uint32 { return h.h }

// Sum hashes b starting from basis.
func Sum(basis uint32, b []byte) uint32 {
	h := basis
	for _, c := range b {
		h ^= uint32(c)
		h *= Prime
	}
	return h
}
