package blocks

import (
	"fmt"
	"iter"
	"slices"

	"github.com/dacapoday/bbmap/interval"
)

// GetBlock returns the block containing addr.
func (m *Map[T]) GetBlock(addr Addr) (Block[T], bool) {
	return m.seq.Find(addr)
}

// Contains returns true if some block contains addr.
func (m *Map[T]) Contains(addr Addr) bool {
	return m.seq.Contains(addr)
}

// IterBlocks yields the blocks intersecting [start, stop) in ascending address order.
// A nil bound leaves that side open. Every call reads the current contents;
// adding blocks while ranging over the result is not supported.
func (m *Map[T]) IterBlocks(start, stop *Addr) iter.Seq[Block[T]] {
	return m.seq.Overlapping(start, stop)
}

// All yields every block in ascending address order.
func (m *Map[T]) All() iter.Seq[Block[T]] {
	return m.seq.Items()
}

// Slice returns the blocks intersecting [start, stop) in ascending address order.
func (m *Map[T]) Slice(start, stop *Addr) []Block[T] {
	return slices.Collect(m.IterBlocks(start, stop))
}

// Payload returns the payload of the block containing addr.
func (m *Map[T]) Payload(addr Addr) (payload T, found bool) {
	block, found := m.seq.Find(addr)
	if found {
		payload = block.Value
	}
	return
}

// Payloads yields the payloads of the blocks intersecting [start, stop).
func (m *Map[T]) Payloads(start, stop *Addr) iter.Seq[T] {
	return func(yield func(T) bool) {
		for block := range m.seq.Overlapping(start, stop) {
			if !yield(block.Value) {
				return
			}
		}
	}
}

// Len returns the number of stored blocks.
func (m *Map[T]) Len() int {
	return m.seq.Len()
}

// Iter creates a bidirectional cursor keyed by block start.
// It is not a snapshot: it follows later changes to the map.
func (m *Map[T]) Iter() Iter[T] {
	return m.seq.Iter()
}

// Iter is a cursor over a Map; Key is the block start and Val the Block.
type Iter[T any] = interval.Iter[T]

// Set adds payload as the block [start, stop) under the Trim policy.
func (m *Map[T]) Set(start, stop Addr, payload T) error {
	if stop <= start {
		return fmt.Errorf("%w: [%#x, %#x)", ErrInvalidRange, start, stop)
	}
	return m.AddBlock(start, stop-start, payload, Trim, nil)
}

// DelBlock always fails with ErrNotImplemented.
func (m *Map[T]) DelBlock(addr Addr) error {
	return fmt.Errorf("%w: delete block at %#x", ErrNotImplemented, addr)
}
