package interval

import (
	"fmt"

	"github.com/dacapoday/bbmap"
)

// Item is one entry of a Sequence: the half-open range [Start, End) and its value.
type Item[V any] struct {
	Start, End Addr
	Value      V
}

// Addr returns the start of the item.
func (item Item[V]) Addr() Addr {
	return item.Start
}

// Size returns End-Start, or 0 for a degenerate item.
func (item Item[V]) Size() uint64 {
	return item.Range().Len()
}

// Range returns the address range covered by the item.
func (item Item[V]) Range() bbmap.Range {
	return bbmap.Range{Start: item.Start, End: item.End}
}

// Contains returns true if addr falls within [Start, End).
func (item Item[V]) Contains(addr Addr) bool {
	return item.Range().Contains(addr)
}

// Degenerate returns true if the item covers no address.
func (item Item[V]) Degenerate() bool {
	return item.End <= item.Start
}

func (item Item[V]) String() string {
	return fmt.Sprintf("<Item(%#x, %#x, %v)>", item.Start, item.End, item.Value)
}
