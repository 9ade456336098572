package table

import (
	"bytes"
	"fmt"
	"math"
	"unsafe"

	"github.com/joshuapare/wordfreq/internal/buf"
	"github.com/joshuapare/wordfreq/wordcount/alloc"
	"github.com/joshuapare/wordfreq/wordcount/arena"
)

// Slot is one entry of the table. It refers to its key in arena memory by
// block and offset and holds no Go pointers, so a slot array may live in a
// plain byte region. Len == 0 marks an empty slot.
type Slot struct {
	Block uint32
	Off   uint32
	Len   uint32
	Hash  uint32
	Count uint64
}

// SlotSize is the number of bytes a slot occupies in the backing array.
const SlotSize = int(unsafe.Sizeof(Slot{}))

// Empty reports whether the slot is unoccupied.
func (s *Slot) Empty() bool { return s.Len == 0 }

// Ref returns the arena reference of the slot's key.
func (s *Slot) Ref() arena.Ref { return arena.Ref{Block: s.Block, Off: s.Off} }

// Load factor threshold: a new key may not take the table to
// loadNum/loadDen or beyond.
const (
	loadNum = 7
	loadDen = 10
)

// Table is an open-addressing hash table with linear probing and no
// tombstones. Keys are copied into the arena on first insert; the table only
// stores references to them.
//
// A fixed table never grows: reaching the load threshold fails with
// ErrTableFull and leaves the table unchanged.
type Table struct {
	st *alloc.State
	ar *arena.Arena

	raw      []byte // backing region owned through st
	slots    []Slot // view over raw
	occupied int
	fixed    bool
}

// New allocates a table of capacity slots through st. capacity must be a
// power of two. Keys are stored in ar, which must outlive the table.
func New(st *alloc.State, ar *arena.Arena, capacity int, fixed bool) (*Table, error) {
	raw, slots, err := allocSlots(st, capacity)
	if err != nil {
		return nil, err
	}
	return &Table{
		st:    st,
		ar:    ar,
		raw:   raw,
		slots: slots,
		fixed: fixed,
	}, nil
}

// Bytes returns the byte cost of a slot array with capacity entries, or
// ok = false on overflow.
func Bytes(capacity int) (int, bool) {
	return buf.MulSize(capacity, SlotSize)
}

func allocSlots(st *alloc.State, capacity int) ([]byte, []Slot, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, nil, ErrCapacity
	}
	size, ok := Bytes(capacity)
	if !ok {
		return nil, nil, ErrCapacity
	}
	raw, err := st.Alloc(size)
	if err != nil {
		return nil, nil, err
	}
	if raw == nil {
		// Dry-run state: sizing only.
		return nil, nil, nil
	}
	return raw, unsafe.Slice((*Slot)(unsafe.Pointer(unsafe.SliceData(raw))), capacity), nil
}

// Lookup probes for key. It returns the index of the matching slot with
// found = true, or the index of the empty slot where key would go. A full
// cycle with neither yields ErrTableFull.
func (t *Table) Lookup(key []byte, hash uint32) (int, bool, error) {
	capacity := len(t.slots)
	if capacity == 0 {
		return 0, false, ErrTableFull
	}
	mask := capacity - 1
	start := int(hash) & mask
	idx := start
	for {
		s := &t.slots[idx]
		if s.Empty() {
			return idx, false, nil
		}
		if s.Hash == hash && int(s.Len) == len(key) && bytes.Equal(t.ar.Bytes(s.Ref(), int(s.Len)), key) {
			return idx, true, nil
		}
		idx = (idx + 1) & mask
		if idx == start {
			return 0, false, ErrTableFull
		}
	}
}

// Insert counts one occurrence of key. An existing key has its count
// incremented; a new key is copied into the arena and takes a slot, growing
// the table first when the load threshold would be reached.
//
// It reports whether key was new. On error the table is unchanged apart from
// a possible completed growth.
func (t *Table) Insert(key []byte, hash uint32) (bool, error) {
	if len(key) == 0 || uint64(len(key)) > math.MaxUint32 {
		return false, ErrKey
	}

	idx, found, err := t.Lookup(key, hash)
	if found {
		t.slots[idx].Count++
		return false, nil
	}

	if t.atThreshold() {
		if t.fixed {
			return false, ErrTableFull
		}
		if err := t.Grow(); err != nil {
			return false, err
		}
		idx, _, err = t.Lookup(key, hash)
	}
	if err != nil {
		return false, err
	}

	ref, dst, err := t.ar.Alloc(len(key))
	if err != nil {
		return false, err
	}
	copy(dst, key)

	t.slots[idx] = Slot{
		Block: ref.Block,
		Off:   ref.Off,
		Len:   uint32(len(key)),
		Hash:  hash,
		Count: 1,
	}
	t.occupied++
	return true, nil
}

// atThreshold reports whether one more key would reach the load threshold.
func (t *Table) atThreshold() bool {
	return (t.occupied+1)*loadDen >= len(t.slots)*loadNum
}

// Grow doubles the capacity and rehashes every occupied slot into the new
// array, then releases the old one. Keys in the arena are not touched.
// A fixed table returns ErrTableFull.
func (t *Table) Grow() error {
	if t.fixed {
		return ErrTableFull
	}
	newCap, ok := buf.MulSize(len(t.slots), 2)
	if !ok {
		return ErrCapacity
	}
	raw, slots, err := allocSlots(t.st, newCap)
	if err != nil {
		return err
	}

	mask := newCap - 1
	for i := range t.slots {
		s := &t.slots[i]
		if s.Empty() {
			continue
		}
		idx := int(s.Hash) & mask
		for !slots[idx].Empty() {
			idx = (idx + 1) & mask
		}
		slots[idx] = *s
	}

	t.st.Release(t.raw)
	t.raw = raw
	t.slots = slots
	return nil
}

// Verify counts occupied slots and checks the total against Len.
func (t *Table) Verify() error {
	n := 0
	for i := range t.slots {
		if !t.slots[i].Empty() {
			n++
		}
	}
	if n != t.occupied {
		return fmt.Errorf("%w: %d occupied slots, %d tracked", ErrCorrupt, n, t.occupied)
	}
	return nil
}

// At returns a copy of slot i.
func (t *Table) At(i int) Slot { return t.slots[i] }

// Key returns the arena bytes of the key in slot i, or nil for an empty slot.
// The result aliases arena memory.
func (t *Table) Key(i int) []byte {
	s := &t.slots[i]
	if s.Empty() {
		return nil
	}
	return t.ar.Bytes(s.Ref(), int(s.Len))
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int { return len(t.slots) }

// Len returns the number of occupied slots.
func (t *Table) Len() int { return t.occupied }

// Fixed reports whether growth is disabled.
func (t *Table) Fixed() bool { return t.fixed }

// Release returns the slot array to the State. The table is empty and
// unusable afterwards.
func (t *Table) Release() {
	if t.raw != nil {
		t.st.Release(t.raw)
	}
	t.raw = nil
	t.slots = nil
	t.occupied = 0
}
