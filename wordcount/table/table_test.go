package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/wordfreq/wordcount/alloc"
	"github.com/joshuapare/wordfreq/wordcount/arena"
)

type fixture struct {
	st  *alloc.State
	ar  *arena.Arena
	tab *Table
}

func newFixture(t *testing.T, st *alloc.State, capacity int) fixture {
	t.Helper()
	ar, err := arena.New(st, 256)
	require.NoError(t, err)
	tab, err := New(st, ar, capacity, st.Static())
	require.NoError(t, err)
	return fixture{st: st, ar: ar, tab: tab}
}

func (f fixture) insert(t *testing.T, key string) bool {
	t.Helper()
	added, err := f.tab.Insert([]byte(key), Sum(Basis(0), []byte(key)))
	require.NoError(t, err)
	return added
}

func (f fixture) count(key string) uint64 {
	idx, found, err := f.tab.Lookup([]byte(key), Sum(Basis(0), []byte(key)))
	if err != nil || !found {
		return 0
	}
	return f.tab.At(idx).Count
}

func TestSlotSize(t *testing.T) {
	assert.Equal(t, 24, SlotSize)
}

// TestInsert_Counts checks find-or-insert semantics.
func TestInsert_Counts(t *testing.T) {
	f := newFixture(t, alloc.NewDynamic(nil, 0), 16)

	assert.True(t, f.insert(t, "apple"))
	assert.False(t, f.insert(t, "apple"))
	assert.True(t, f.insert(t, "banana"))

	assert.Equal(t, 2, f.tab.Len())
	assert.Equal(t, uint64(2), f.count("apple"))
	assert.Equal(t, uint64(1), f.count("banana"))
	assert.Equal(t, uint64(0), f.count("cherry"))
}

// TestInsert_CollisionNeedsLengthAndBytes forces every key onto one hash and
// checks that keys are told apart by length and content.
func TestInsert_CollisionNeedsLengthAndBytes(t *testing.T) {
	f := newFixture(t, alloc.NewDynamic(nil, 0), 16)
	const h = 7

	keys := []string{"ab", "abc", "abd", "a"}
	for _, k := range keys {
		added, err := f.tab.Insert([]byte(k), h)
		require.NoError(t, err)
		assert.True(t, added, "key %q", k)
	}
	added, err := f.tab.Insert([]byte("abc"), h)
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 4, f.tab.Len())
	idx, found, err := f.tab.Lookup([]byte("abc"), h)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(2), f.tab.At(idx).Count)
	assert.Equal(t, "abc", string(f.tab.Key(idx)))
}

// TestInsert_ProbeWraps checks wraparound from the last slot.
func TestInsert_ProbeWraps(t *testing.T) {
	f := newFixture(t, alloc.NewDynamic(nil, 0), 16)
	for _, k := range []string{"x", "y", "z"} {
		_, err := f.tab.Insert([]byte(k), 15)
		require.NoError(t, err)
	}
	for _, i := range []int{15, 0, 1} {
		s := f.tab.At(i)
		assert.False(t, s.Empty())
	}
}

// TestGrow_PreservesData inserts enough keys to force several doublings.
func TestGrow_PreservesData(t *testing.T) {
	st := alloc.NewDynamic(nil, 0)
	f := newFixture(t, st, 16)

	const n = 5000
	for i := range n {
		key := fmt.Sprintf("key%05d", i)
		f.insert(t, key)
		if i%3 == 0 {
			f.insert(t, key)
		}
	}

	assert.Equal(t, n, f.tab.Len())
	assert.GreaterOrEqual(t, f.tab.Capacity(), 8192)
	for i := range n {
		key := fmt.Sprintf("key%05d", i)
		want := uint64(1)
		if i%3 == 0 {
			want = 2
		}
		require.Equal(t, want, f.count(key), "key %s", key)
	}

	// Only the current slot array is charged.
	slotBytes, _ := Bytes(f.tab.Capacity())
	assert.Equal(t, slotBytes+arenaBytes(f.ar), st.Used())
}

// TestLoadFactor checks the growth point.
func TestLoadFactor(t *testing.T) {
	f := newFixture(t, alloc.NewDynamic(nil, 0), 16)
	// (occupied+1)*10 >= 112 first holds at occupied = 11.
	for i := range 11 {
		f.insert(t, fmt.Sprintf("w%d", i))
	}
	assert.Equal(t, 16, f.tab.Capacity())
	f.insert(t, "w11")
	assert.Equal(t, 32, f.tab.Capacity())
	assert.LessOrEqual(t, f.tab.Len()*10, f.tab.Capacity()*7)
}

// TestFixed_FailsAtThreshold checks that a fixed table refuses new keys
// without changing, and still counts existing ones.
func TestFixed_FailsAtThreshold(t *testing.T) {
	st, err := alloc.NewStatic(make([]byte, 4096), 0)
	require.NoError(t, err)
	f := newFixture(t, st, 16)
	require.True(t, f.tab.Fixed())

	for i := range 11 {
		f.insert(t, fmt.Sprintf("w%d", i))
	}
	used := st.Used()

	_, err = f.tab.Insert([]byte("overflow"), Sum(Basis(0), []byte("overflow")))
	require.ErrorIs(t, err, ErrTableFull)
	require.ErrorIs(t, err, alloc.ErrOutOfMemory)
	assert.Equal(t, 11, f.tab.Len())
	assert.Equal(t, 16, f.tab.Capacity())
	assert.Equal(t, used, st.Used())

	assert.False(t, f.insert(t, "w3"), "existing keys still count")
	assert.Equal(t, uint64(2), f.count("w3"))

	require.ErrorIs(t, f.tab.Grow(), ErrTableFull)
}

// TestInsert_ArenaFailure checks consistency when the key copy fails.
func TestInsert_ArenaFailure(t *testing.T) {
	st, err := alloc.NewStatic(make([]byte, 1024), 0)
	require.NoError(t, err)
	ar, err := arena.New(st, 16)
	require.NoError(t, err)
	tab, err := New(st, ar, 16, true)
	require.NoError(t, err)

	_, err = tab.Insert([]byte("twelve-bytes"), 1)
	require.NoError(t, err)

	_, err = tab.Insert([]byte("another-long-key"), 2)
	require.ErrorIs(t, err, arena.ErrFull)
	assert.Equal(t, 1, tab.Len())

	occupied := 0
	for i := range tab.Capacity() {
		if s := tab.At(i); !s.Empty() {
			occupied++
		}
	}
	assert.Equal(t, 1, occupied, "no partial slot left behind")
}

// TestGrow_FailureLeavesTable checks that a failed growth keeps the old array.
func TestGrow_FailureLeavesTable(t *testing.T) {
	fa := alloc.NewFailing(0)
	st := alloc.NewDynamic(fa, 0)
	f := newFixture(t, st, 16)
	for i := range 11 {
		f.insert(t, fmt.Sprintf("w%d", i))
	}

	fa.Arm(1)
	_, err := f.tab.Insert([]byte("w11"), Sum(Basis(0), []byte("w11")))
	require.ErrorIs(t, err, alloc.ErrOutOfMemory)
	assert.Equal(t, 16, f.tab.Capacity())
	assert.Equal(t, 11, f.tab.Len())
	for i := range 11 {
		assert.Equal(t, uint64(1), f.count(fmt.Sprintf("w%d", i)))
	}
}

// TestInsert_InvalidKey checks empty keys.
func TestInsert_InvalidKey(t *testing.T) {
	f := newFixture(t, alloc.NewDynamic(nil, 0), 16)
	_, err := f.tab.Insert(nil, 0)
	require.ErrorIs(t, err, ErrKey)
}

// TestNew_InvalidCapacity checks capacity validation.
func TestNew_InvalidCapacity(t *testing.T) {
	st := alloc.NewDynamic(nil, 0)
	ar, err := arena.New(st, 64)
	require.NoError(t, err)
	for _, c := range []int{0, -4, 3, 24} {
		_, err := New(st, ar, c, false)
		require.ErrorIs(t, err, ErrCapacity, "capacity %d", c)
	}
}

// TestRelease checks that the slot array is returned to the State.
func TestRelease(t *testing.T) {
	st := alloc.NewDynamic(nil, 0)
	f := newFixture(t, st, 64)
	f.insert(t, "word")
	f.tab.Release()
	f.ar.Release()
	assert.Equal(t, 0, st.Used())
	assert.Equal(t, 0, f.tab.Capacity())
	assert.Equal(t, 0, f.tab.Len())
}

// TestVerify checks the occupied-count consistency check.
func TestVerify(t *testing.T) {
	f := newFixture(t, alloc.NewDynamic(nil, 0), 16)
	f.insert(t, "a")
	f.insert(t, "b")
	require.NoError(t, f.tab.Verify())

	f.tab.occupied++
	require.ErrorIs(t, f.tab.Verify(), ErrCorrupt)
}

func arenaBytes(a *arena.Arena) int {
	// Blocks are 256 bytes unless a key needed more, which never happens here.
	return a.Blocks() * a.BlockSize()
}

func BenchmarkInsert(b *testing.B) {
	st := alloc.NewDynamic(nil, 0)
	ar, err := arena.New(st, 64*1024)
	require.NoError(b, err)
	tab, err := New(st, ar, 1024, false)
	require.NoError(b, err)

	keys := make([][]byte, 4096)
	hashes := make([]uint32, len(keys))
	for i := range keys {
		keys[i] = fmt.Appendf(nil, "word%d", i)
		hashes[i] = Sum(Basis(0), keys[i])
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		k := i & (len(keys) - 1)
		if _, err := tab.Insert(keys[k], hashes[k]); err != nil {
			b.Fatal(err)
		}
	}
}
