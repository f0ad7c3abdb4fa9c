package btree

// entry carries a slot being inserted, plus the left subtree it drags
// up when a split pushes it into the parent.
type entry[V any] struct {
	slot slot[V]
	node *node[V]
}

func (e *entry[V]) set(n *node[V]) bool {
	var cursors []cursor[V]
	var index int
	var next *node[V]
	for {
		index, _ = n.find(e.slot.key)
		next = n.node(index)
		if next == nil {
			break
		}
		cursors = append(cursors, cursor[V]{n, index})
		n = next
	}
	if e.insert(index, n) {
		return true
	}
	for i := len(cursors) - 1; i >= 0; i-- {
		if e.insert(cursors[i].index, cursors[i].node) {
			return true
		}
	}
	return false
}

func (e *entry[V]) insert(i int, n *node[V]) bool {
	if n.count < order {
		n.insert(i, e)
		return true
	}
	e.split(i, n)
	return false
}

func (e *entry[V]) split(i int, n *node[V]) {
	const total = order + 1
	var slots [total]slot[V]
	var nodes [total]*node[V]
	{
		copy(slots[:i], n.slots[:i])
		copy(nodes[:i], n.nodes[:i])

		slots[i] = e.slot
		nodes[i] = e.node

		l := i + 1
		copy(slots[l:], n.slots[i:])
		copy(nodes[l:], n.nodes[i:])
	}

	newn := new(node[V])
	copy(newn.slots[:], slots[:half])
	copy(newn.nodes[:], nodes[:half])
	newn.count = half
	newn.last = nodes[half]

	e.slot = slots[half]
	e.node = newn

	const r = half + 1
	clear(n.slots[:])
	copy(n.slots[:], slots[r:])
	copy(n.nodes[:], nodes[r:])
	n.count = order - half
}
