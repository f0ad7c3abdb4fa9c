package blocks

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(a Addr) *Addr { return &a }

func ranges(m *Map[string]) [][2]Addr {
	var out [][2]Addr
	for b := range m.All() {
		out = append(out, [2]Addr{b.Start, b.End})
	}
	return out
}

func requireDisjoint[T any](t *testing.T, m *Map[T]) {
	t.Helper()
	var prev *Block[T]
	for b := range m.All() {
		require.Less(t, b.Start, b.End, "degenerate block %s", b.Range())
		if prev != nil {
			require.LessOrEqual(t, prev.End, b.Start, "%s overlaps %s", prev.Range(), b.Range())
		}
		prev = &b
	}
}

func TestTrimLaterBlockWins(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(10, 10, "first", Trim, nil))
	require.NoError(t, m.AddBlock(15, 10, "second", Trim, nil))

	require.Equal(t, [][2]Addr{{10, 15}, {15, 25}}, ranges(&m))

	b, found := m.GetBlock(12)
	require.True(t, found)
	require.Equal(t, "first", b.Value, "payload retained after trim")

	b, found = m.GetBlock(15)
	require.True(t, found)
	require.Equal(t, "second", b.Value)

	t.Log("✓ trim: [10,20) + [15,25) -> [10,15) [15,25)")
}

func TestTrimRightNeighbour(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(15, 10, "first", Trim, nil))
	require.NoError(t, m.AddBlock(10, 10, "second", Trim, nil))
	require.Equal(t, [][2]Addr{{10, 20}, {20, 25}}, ranges(&m))
}

func TestTrimDropsCoveredBlocks(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(10, 2, "a", Trim, nil))
	require.NoError(t, m.AddBlock(12, 2, "b", Trim, nil))
	require.NoError(t, m.AddBlock(14, 2, "c", Trim, nil))
	require.NoError(t, m.AddBlock(8, 10, "all", Trim, nil))

	require.Equal(t, [][2]Addr{{8, 18}}, ranges(&m))
	require.Equal(t, 1, m.Len())
}

func TestTrimEnclosedIsConflict(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(0, 100, "outer", Trim, nil))

	err := m.AddBlock(10, 10, "inner", Trim, nil)
	require.ErrorIs(t, err, ErrConflict)

	var conflict *ConflictError[string]
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, Addr(10), conflict.This.Start)
	require.Equal(t, Addr(0), conflict.Other.Start)
	require.Equal(t, [][2]Addr{{0, 100}}, ranges(&m))
}

func TestRaiseLeavesStoreUnchanged(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(10, 10, "first", Raise, nil))

	err := m.AddBlock(15, 10, "second", Raise, nil)
	require.ErrorIs(t, err, ErrConflict)

	var conflict *ConflictError[string]
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, Block[string]{Start: 15, End: 25, Value: "second"}, conflict.This)
	require.Equal(t, Block[string]{Start: 10, End: 20, Value: "first"}, conflict.Other)

	require.Equal(t, [][2]Addr{{10, 20}}, ranges(&m))
	require.False(t, m.Contains(22))
}

func TestHandleDelegation(t *testing.T) {
	var m Map[string]
	unused := func(this, other *Block[string]) { t.Fatal("handler called without a conflict") }
	require.NoError(t, m.AddBlock(10, 10, "first", Handle, unused))

	var calls int
	handler := func(this, other *Block[string]) {
		calls++
		require.Equal(t, Addr(15), this.Start)
		require.Equal(t, Addr(10), other.Start)
		other.End = 15
	}
	require.NoError(t, m.AddBlock(15, 10, "second", Handle, handler))
	require.Equal(t, 1, calls)
	require.Equal(t, [][2]Addr{{10, 15}, {15, 25}}, ranges(&m))
}

func TestHandleUnresolvedRollsBack(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(10, 10, "first", Trim, nil))

	var calls int
	err := m.AddBlock(15, 10, "second", Handle, func(this, other *Block[string]) {
		calls++
		other.End = 17
	})
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 1, calls, "handler runs exactly once")
	require.Equal(t, [][2]Addr{{10, 20}}, ranges(&m))

	b, _ := m.GetBlock(19)
	require.Equal(t, "first", b.Value)
}

func TestHandleCanShrinkNewBlock(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(10, 10, "first", Trim, nil))

	err := m.AddBlock(5, 10, "second", Handle, func(this, other *Block[string]) {
		this.End = other.Start
	})
	require.NoError(t, err)
	require.Equal(t, [][2]Addr{{5, 10}, {10, 20}}, ranges(&m))
}

func TestHandleDropsEmptiedBlock(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(10, 5, "first", Trim, nil))

	err := m.AddBlock(10, 10, "second", Handle, func(this, other *Block[string]) {
		other.End = other.Start
	})
	require.NoError(t, err)
	require.Equal(t, [][2]Addr{{10, 20}}, ranges(&m))
	b, _ := m.GetBlock(10)
	require.Equal(t, "second", b.Value)
}

func TestHandleEmptiedNewBlockIsConflict(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(10, 10, "first", Trim, nil))

	err := m.AddBlock(15, 10, "second", Handle, func(this, other *Block[string]) {
		this.End = this.Start
	})
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, [][2]Addr{{10, 20}}, ranges(&m))
}

func TestZeroSizeRejected(t *testing.T) {
	for _, policy := range []Policy{Trim, Handle, Raise} {
		var m Map[string]
		err := m.AddBlock(100, 0, "empty", policy, nil)
		require.ErrorIs(t, err, ErrInvalidRange, "policy %s", policy)
		require.Zero(t, m.Len())
	}

	var m Map[string]
	err := m.AddBlock(^Addr(0)-4, 10, "wrap", Trim, nil)
	require.ErrorIs(t, err, ErrInvalidRange)
	require.Zero(t, m.Len())
}

func TestInvalidPolicy(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(0, 4, "a", Trim, nil))

	err := m.AddBlock(2, 4, "b", Handle, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	err = m.AddBlock(2, 4, "b", Policy(9), nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	require.Equal(t, [][2]Addr{{0, 4}}, ranges(&m))
}

func TestParsePolicy(t *testing.T) {
	for _, policy := range []Policy{Trim, Handle, Raise} {
		got, err := ParsePolicy(policy.String())
		require.NoError(t, err)
		require.Equal(t, policy, got)
	}
	_, err := ParsePolicy("merge")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDelBlockNotImplemented(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(0, 4, "a", Trim, nil))
	require.ErrorIs(t, m.DelBlock(0), ErrNotImplemented)
	require.Equal(t, 1, m.Len())
}

func TestSetSlice(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.Set(0x10, 0x20, "a"))
	require.NoError(t, m.Set(0x20, 0x28, "b"))
	require.ErrorIs(t, m.Set(0x30, 0x30, "c"), ErrInvalidRange)

	got := m.Slice(ptr(0x18), ptr(0x21))
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Value)
	require.Equal(t, "b", got[1].Value)

	payload, found := m.Payload(0x27)
	require.True(t, found)
	require.Equal(t, "b", payload)

	_, found = m.Payload(0x28)
	require.False(t, found)

	require.Equal(t, []string{"a", "b"}, slices.Collect(m.Payloads(nil, nil)))
}

func TestIterCursor(t *testing.T) {
	var m Map[string]
	require.NoError(t, m.AddBlock(0x10, 0x10, "a", Trim, nil))
	require.NoError(t, m.AddBlock(0x30, 0x10, "b", Trim, nil))
	require.NoError(t, m.AddBlock(0x50, 0x10, "c", Trim, nil))

	it := m.Iter()
	require.True(t, it.Seek(0x31))
	require.Equal(t, "c", it.Val().Value)
	require.True(t, it.Prev())
	require.Equal(t, Addr(0x30), it.Key())
	require.True(t, it.SeekLast())
	require.Equal(t, "c", it.Val().Value)
}

// TestRandomProperties adds random blocks under every policy and checks the
// disjointness invariant, point lookups and range queries against a flat model.
func TestRandomProperties(t *testing.T) {
	const space = 4096
	var m Map[int]
	m.Load(compact(8))
	var owner [space]int // 0 means unowned; otherwise payload+1

	cutOther := func(this, other *Block[int]) {
		if other.Start < this.Start {
			other.End = this.Start
		} else {
			other.Start = this.End
		}
	}

	for i := range 5000 {
		start := rand.Uint64N(space - 64)
		size := 1 + rand.Uint64N(63)
		policy := Policy(rand.IntN(3))

		before := slices.Collect(m.All())
		err := m.AddBlock(start, size, i, policy, cutOther)
		if err != nil {
			require.ErrorIs(t, err, ErrConflict)
			require.Equal(t, before, slices.Collect(m.All()), "failed add must not change the map")
			continue
		}

		// rebuild the model from the map and check the new block owns its range
		clear(owner[:])
		for b := range m.All() {
			for a := b.Start; a < b.End; a++ {
				owner[a] = b.Value + 1
			}
		}
		if policy != Handle {
			for a := start; a < start+size; a++ {
				require.Equal(t, i+1, owner[a])
			}
		}
	}

	requireDisjoint(t, &m)
	for a := range Addr(space) {
		b, found := m.GetBlock(a)
		if owner[a] == 0 {
			require.False(t, found, "addr %d", a)
			continue
		}
		require.True(t, found, "addr %d", a)
		require.Equal(t, owner[a]-1, b.Value)
	}

	for range 200 {
		s := rand.Uint64N(space)
		e := s + rand.Uint64N(256)
		var want []int
		seen := map[int]bool{}
		for a := s; a < e && a < space; a++ {
			if v := owner[a]; v != 0 && !seen[v] {
				seen[v] = true
				want = append(want, v-1)
			}
		}
		var got []int
		var last Addr
		for b := range m.IterBlocks(ptr(s), ptr(e)) {
			require.GreaterOrEqual(t, b.Start, last)
			last = b.Start
			got = append(got, b.Value)
		}
		require.Equal(t, want, got, "IterBlocks(%d, %d)", s, e)
	}
	t.Logf("✓ %d blocks satisfy the invariants", m.Len())
}

type compact int

func (c compact) CompactThreshold() int { return int(c) }

func TestSyncConcurrentAdds(t *testing.T) {
	var s Sync[int]
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				addr := Addr(w*1000 + i*10)
				if err := s.AddBlock(addr, 10, i, Raise, nil); err != nil {
					t.Errorf("AddBlock(%#x): %v", addr, err)
				}
				if _, found := s.GetBlock(addr); !found {
					t.Errorf("GetBlock(%#x) not found", addr)
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 800, s.Len())
	s.View(func(m *Map[int]) {
		requireDisjoint(t, m)
	})
	err := s.Update(func(m *Map[int]) error {
		return m.AddBlock(5, 10, -1, Raise, nil)
	})
	require.ErrorIs(t, err, ErrConflict)
}
