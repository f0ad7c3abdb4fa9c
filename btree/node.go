package btree

import (
	"cmp"
	"sort"
)

const order = 6 // min: 2
const half = (order + 1) / 2
const double = 2*order + 1

type node[V any] struct {
	count int
	slots [order]slot[V]
	nodes [order]*node[V]
	last  *node[V]
}

func (node *node[V]) slot(i int) *slot[V] {
	return &node.slots[i]
}

func (node *node[V]) node(i int) *node[V] {
	if i == node.count {
		return node.last
	}
	return node.nodes[i]
}

func (node *node[V]) find(key uint64) (int, bool) {
	return sort.Find(node.count, func(i int) int {
		return cmp.Compare(key, node.slots[i].key)
	})
}

func (node *node[V]) insert(i int, entry *entry[V]) {
	if i != node.count {
		l := i + 1
		copy(node.slots[l:], node.slots[i:node.count])
		copy(node.nodes[l:], node.nodes[i:node.count])
	}
	node.count++
	node.slots[i] = entry.slot
	node.nodes[i] = entry.node
}

func (node *node[V]) items(yield func(key uint64, val V) bool) bool {
	if node.last == nil {
		for i := 0; i < node.count; i++ {
			if !node.slots[i].yield(yield) {
				return false
			}
		}
		return true
	}
	for i := 0; i < node.count; i++ {
		if !node.nodes[i].items(yield) {
			return false
		}
		if !node.slots[i].yield(yield) {
			return false
		}
	}
	return node.last.items(yield)
}
