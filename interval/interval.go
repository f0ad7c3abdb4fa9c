// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package interval implements an ordered sequence of disjoint address ranges.
//
// Insertion never overwrites or truncates silently: an insert that would
// intersect a stored item is aborted and reported as an *OverlapError naming
// both items, unless the caller grants the insert a second chance, in which
// case stored neighbours are trimmed so the new item wins the overlap.
package interval

import (
	"iter"

	"github.com/dacapoday/bbmap"
	"github.com/dacapoday/bbmap/btree"
	"github.com/dacapoday/bbmap/iterator"
)

type Addr = bbmap.Addr

// CompactThreshold is probed on the option passed to Load.
type CompactThreshold interface {
	CompactThreshold() int
}

// Sequence is an ordered set of pairwise disjoint items keyed by start address.
// The zero value is an empty sequence ready to use. Not thread-safe.
type Sequence[V any] struct {
	tree btree.BTree[Item[V]]
}

// Iter is a live cursor over a Sequence, keyed by item start.
type Iter[V any] = *iterator.Live[Item[V], *btree.Iter[Item[V]]]

// Load applies options. opt may implement CompactThreshold.
func (seq *Sequence[V]) Load(opt any) {
	if o, ok := opt.(CompactThreshold); ok {
		seq.tree.SetCompactThreshold(o.CompactThreshold())
	}
}

// Len returns the number of stored items.
func (seq *Sequence[V]) Len() int {
	return seq.tree.Len()
}

// Iter creates a cursor that skips removed items and stays synchronized with the sequence.
func (seq *Sequence[V]) Iter() Iter[V] {
	it := new(iterator.Live[Item[V], *btree.Iter[Item[V]]])
	it.Load(seq.tree.Iter())
	return it
}

// Find returns the item containing addr.
func (seq *Sequence[V]) Find(addr Addr) (item Item[V], found bool) {
	it := seq.Iter()
	if !seekFloor[V](it, addr) || it.Key() > addr {
		return
	}
	if item = it.Val(); item.Contains(addr) {
		return item, true
	}
	return Item[V]{}, false
}

// Contains returns true if some item contains addr.
func (seq *Sequence[V]) Contains(addr Addr) bool {
	_, found := seq.Find(addr)
	return found
}

// Overlapping yields the items intersecting [start, stop) in ascending order.
// A nil bound leaves that side unbounded. Each call reads the current contents.
func (seq *Sequence[V]) Overlapping(start, stop *Addr) iter.Seq[Item[V]] {
	return func(yield func(Item[V]) bool) {
		if start != nil && stop != nil && *stop <= *start {
			return
		}
		it := seq.Iter()
		var ok bool
		if start == nil {
			ok = it.SeekFirst()
		} else {
			ok = seekFloor[V](it, *start)
		}
		for ; ok; ok = it.Next() {
			item := it.Val()
			if stop != nil && item.Start >= *stop {
				return
			}
			if start != nil && item.End <= *start {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Items yields every item in ascending order.
func (seq *Sequence[V]) Items() iter.Seq[Item[V]] {
	return seq.Overlapping(nil, nil)
}

// seekFloor positions it at the last item starting at or before addr,
// or at the first item when none does.
func seekFloor[V any](it Iter[V], addr Addr) bool {
	if !it.Seek(addr) {
		return it.SeekLast()
	}
	if it.Key() == addr || it.Prev() {
		return true
	}
	return it.Seek(addr)
}
