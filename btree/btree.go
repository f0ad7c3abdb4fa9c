// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package btree provides an in-memory B-tree keyed by address, with tombstone
// deletes and iterator support.
package btree

import (
	"cmp"
	"sort"
)

// DefaultCompactThreshold is the tombstone count below which Delete never compacts.
const DefaultCompactThreshold = 64

// BTree is an in-memory B-tree mapping uint64 keys to values of type V in ascending key order.
// Not thread-safe.
//
// Nodes are never merged. Delete only marks a tombstone on the key; tombstones are
// dropped by Compact, which Delete triggers once tombstones exceed both the
// compaction threshold and the number of live keys.
//
// Example usage:
//
//	var tree BTree[string]
//	tree.Set(0x1000, "entry")
//	val, found := tree.Get(0x1000)  // val == "entry", found == true
//
//	for key, val := range tree.Items {
//		fmt.Printf("%#x = %s\n", key, val)
//	}
//
//	tree.Reset()  // Clear all data
type BTree[V any] struct {
	items   []slot[V]
	nodes   []*node[V]
	last    *node[V]
	version uint64

	live, dead int
	threshold  int
}

type slot[V any] struct {
	key  uint64
	val  V
	dead bool
}

// SetCompactThreshold sets the tombstone count Delete tolerates before compacting.
// Zero or negative restores DefaultCompactThreshold.
func (btree *BTree[V]) SetCompactThreshold(n int) {
	btree.threshold = n
}

// Reset clears all data.
func (btree *BTree[V]) Reset() {
	btree.items = nil
	btree.nodes = nil
	btree.last = nil
	btree.live = 0
	btree.dead = 0
	btree.version++
}

// Set updates the value for a key (inserts if key doesn't exist).
// Setting a deleted key revives it.
func (btree *BTree[V]) Set(key uint64, val V) {
	btree.version++
	if s := btree.lookup(key); s != nil {
		if s.dead {
			s.dead = false
			btree.dead--
			btree.live++
		}
		s.val = val
		return
	}
	btree.live++
	btree.insert(slot[V]{key: key, val: val})
}

// Get retrieves the value for a key.
// found is false when the key doesn't exist or was deleted.
func (btree *BTree[V]) Get(key uint64) (val V, found bool) {
	s := btree.lookup(key)
	if s == nil || s.dead {
		return
	}
	return s.val, true
}

// Delete marks key as deleted. Returns false if key was not live.
func (btree *BTree[V]) Delete(key uint64) bool {
	s := btree.lookup(key)
	if s == nil || s.dead {
		return false
	}
	var zero V
	s.val = zero
	s.dead = true
	btree.live--
	btree.dead++
	btree.version++

	threshold := btree.threshold
	if threshold <= 0 {
		threshold = DefaultCompactThreshold
	}
	if btree.dead > threshold && btree.dead > btree.live {
		btree.Compact()
	}
	return true
}

// Compact rebuilds the tree without tombstones.
func (btree *BTree[V]) Compact() {
	if btree.dead == 0 {
		return
	}
	live := make([]slot[V], 0, btree.live)
	for key, val := range btree.Items {
		live = append(live, slot[V]{key: key, val: val})
	}
	btree.Reset()
	for _, s := range live {
		btree.insert(s)
	}
	btree.live = len(live)
}

// Len returns the number of live keys.
func (btree *BTree[V]) Len() int {
	return btree.live
}

// Tombstones returns the number of deleted keys not yet compacted.
func (btree *BTree[V]) Tombstones() int {
	return btree.dead
}

// Empty returns true if BTree has no live keys.
func (btree *BTree[V]) Empty() bool {
	return btree.live == 0
}

// Items implements iter.Seq2[uint64, V], iterating all live key-value pairs in ascending order.
func (btree *BTree[V]) Items(yield func(key uint64, val V) bool) {
	if btree.last == nil {
		for i := 0; i < len(btree.items); i++ {
			if !btree.items[i].yield(yield) {
				return
			}
		}
		return
	}
	for i := 0; i < len(btree.items); i++ {
		if !btree.nodes[i].items(yield) {
			return
		}
		if !btree.items[i].yield(yield) {
			return
		}
	}
	btree.last.items(yield)
}

func (s *slot[V]) yield(yield func(uint64, V) bool) bool {
	if s.dead {
		return true
	}
	return yield(s.key, s.val)
}

func (btree *BTree[V]) insert(s slot[V]) {
	entry := entry[V]{slot: s}
	index, _ := btree.find(s.key)
	next := btree.node(index)
	if next == nil {
		btree.insertItem(index, &entry)
		return
	}
	if entry.set(next) {
		return
	}
	btree.insertEntry(index, &entry)
}

func (btree *BTree[V]) lookup(key uint64) *slot[V] {
	index, found := btree.find(key)
	if found {
		return &btree.items[index]
	}

	node := btree.node(index)
	for node != nil {
		index, found = node.find(key)
		if found {
			return &node.slots[index]
		}
		node = node.node(index)
	}
	return nil
}

func (btree *BTree[V]) slot(i int) *slot[V] {
	return &btree.items[i]
}

func (btree *BTree[V]) node(i int) *node[V] {
	if i >= len(btree.nodes) {
		return btree.last
	}
	return btree.nodes[i]
}

func (btree *BTree[V]) find(key uint64) (int, bool) {
	return sort.Find(len(btree.items), func(i int) int {
		return cmp.Compare(key, btree.items[i].key)
	})
}

func (btree *BTree[V]) insertItem(i int, entry *entry[V]) {
	count := len(btree.items)

	if i == count {
		btree.items = append(btree.items, entry.slot)
	} else {
		btree.items = append(btree.items, slot[V]{})

		l := i + 1
		copy(btree.items[l:], btree.items[i:count])

		btree.items[i] = entry.slot
	}

	if len(btree.items) == double {
		lnode := new(node[V])
		copy(lnode.slots[:], btree.items[:order])
		lnode.count = order

		rnode := new(node[V])
		copy(rnode.slots[:], btree.items[order+1:])
		rnode.count = order

		btree.items[0] = btree.items[order]
		btree.items = btree.items[:1]
		btree.nodes = []*node[V]{lnode}
		btree.last = rnode
	}
}

func (btree *BTree[V]) insertEntry(i int, entry *entry[V]) {
	count := len(btree.items)

	if i == count {
		btree.items = append(btree.items, entry.slot)
		btree.nodes = append(btree.nodes, entry.node)
	} else {
		btree.items = append(btree.items, slot[V]{})
		btree.nodes = append(btree.nodes, nil)

		l := i + 1
		copy(btree.items[l:], btree.items[i:count])
		copy(btree.nodes[l:], btree.nodes[i:count])

		btree.items[i] = entry.slot
		btree.nodes[i] = entry.node
	}

	if len(btree.items) == double {
		lnode := new(node[V])
		copy(lnode.slots[:], btree.items[:order])
		copy(lnode.nodes[:], btree.nodes[:order])
		lnode.count = order
		lnode.last = btree.nodes[order]

		rnode := new(node[V])
		copy(rnode.slots[:], btree.items[order+1:])
		copy(rnode.nodes[:], btree.nodes[order+1:])
		rnode.count = order
		rnode.last = btree.last

		btree.items[0] = btree.items[order]
		btree.items = btree.items[:1]
		btree.nodes[0] = lnode
		btree.nodes = btree.nodes[:1]
		btree.last = rnode
	}
}
