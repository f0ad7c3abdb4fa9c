package btree

// Iter creates an iterator that stays synchronized with the BTree (not a snapshot).
// Call SeekFirst, SeekLast, or Seek to position it before use.
//
// The iterator visits tombstones too; check Deleted, or wrap it in iterator.Live.
func (btree *BTree[V]) Iter() *Iter[V] {
	return &Iter[V]{
		root:    btree,
		cursors: nil,
		key:     0,
		version: btree.version,
		index:   len(btree.items),
	}
}

// Iter is an iterator over BTree.
type Iter[V any] struct {
	root    *BTree[V]
	cursors []cursor[V]
	key     uint64
	version uint64
	index   int
}

type cursor[V any] struct {
	node  *node[V]
	index int
}

// Clone creates an independent copy of the iterator at its current position.
func (it *Iter[V]) Clone() *Iter[V] {
	return &Iter[V]{
		root:    it.root,
		cursors: append([]cursor[V](nil), it.cursors...),
		key:     it.key,
		version: it.version,
		index:   it.index,
	}
}

func (it *Iter[V]) reset() {
	it.version = it.root.version
	it.cursors = it.cursors[:0]
	it.index = 0
	it.key = 0
}

func (it *Iter[V]) sync() bool {
	if len(it.root.items) == 0 {
		it.reset()
		return false
	}

	return it.seek(it.key)
}

// Valid returns true if positioned at a valid key (live or deleted).
func (it *Iter[V]) Valid() bool {
	if it.version != it.root.version {
		return it.sync()
	}

	if len(it.cursors) == 0 {
		return it.index < len(it.root.items)
	}

	return true
}

// Error exists for iterator.Iterator interface compatibility.
func (it *Iter[V]) Error() error {
	return nil
}

// Key returns the current key, or 0 if invalid.
func (it *Iter[V]) Key() uint64 {
	return it.key
}

// Val returns the current value, or the zero value if invalid or deleted.
func (it *Iter[V]) Val() (val V) {
	if s := it.current(); s != nil {
		val = s.val
	}
	return
}

// Deleted returns true if the current key is a tombstone.
func (it *Iter[V]) Deleted() bool {
	if s := it.current(); s != nil {
		return s.dead
	}
	return false
}

func (it *Iter[V]) current() *slot[V] {
	if it.version != it.root.version {
		if !it.sync() {
			return nil
		}
	}

	if len(it.cursors) == 0 {
		if it.index >= len(it.root.items) {
			return nil
		}
		return it.root.slot(it.index)
	}

	c := &it.cursors[len(it.cursors)-1]
	return c.node.slot(c.index)
}

// Next advances to the next key. Returns false if no more items.
func (it *Iter[V]) Next() bool {
	if it.version != it.root.version {
		if !it.sync() {
			return false
		}
	}

	var node, next *node[V]
	if len(it.cursors) == 0 {
		if it.index >= len(it.root.items) {
			return false
		}

		it.index++
		node = it.root.node(it.index)
		if node == nil {
			if it.index < len(it.root.items) {
				it.key = it.root.slot(it.index).key
				return true
			}
			it.key = 0
			return false
		}
	} else {
		l := len(it.cursors) - 1
		c := &it.cursors[l]
		c.index++
		node = c.node.node(c.index)
		if node == nil {
			if c.index < c.node.count {
				it.key = c.node.slot(c.index).key
				return true
			}
			for l--; l >= 0; l-- {
				c = &it.cursors[l]
				if c.index < c.node.count {
					it.cursors = it.cursors[:l+1]
					it.key = c.node.slot(c.index).key
					return true
				}
			}
			it.cursors = it.cursors[:0]
			if it.index < len(it.root.items) {
				it.key = it.root.slot(it.index).key
				return true
			}
			it.key = 0
			return false
		}
	}
	for {
		it.cursors = append(it.cursors, cursor[V]{node, 0})
		next = node.node(0)
		if next == nil {
			it.key = node.slot(0).key
			return true
		}
		node = next
	}
}

// Prev moves to the previous key. Returns false if no more items.
func (it *Iter[V]) Prev() bool {
	if it.version != it.root.version {
		if !it.sync() {
			return false
		}
	}

	var node *node[V]
	if len(it.cursors) == 0 {
		if it.index >= len(it.root.items) {
			return false
		}

		node = it.root.node(it.index)
		if node == nil {
			if it.index > 0 {
				it.index--
				it.key = it.root.slot(it.index).key
				return true
			}
			it.index = len(it.root.items)
			it.key = 0
			return false
		}
	} else {
		l := len(it.cursors) - 1
		c := &it.cursors[l]
		node = c.node.node(c.index)
		if node == nil {
			if c.index > 0 {
				c.index--
				it.key = c.node.slot(c.index).key
				return true
			}
			for l--; l >= 0; l-- {
				c = &it.cursors[l]
				if c.index > 0 {
					c.index--
					it.cursors = it.cursors[:l+1]
					it.key = c.node.slot(c.index).key
					return true
				}
			}
			it.cursors = it.cursors[:0]
			if it.index > 0 {
				it.index--
				it.key = it.root.slot(it.index).key
				return true
			}
			it.index = len(it.root.items)
			it.key = 0
			return false
		}
	}
	for node.last != nil {
		it.cursors = append(it.cursors, cursor[V]{node, node.count})
		node = node.last
	}
	index := node.count - 1
	it.cursors = append(it.cursors, cursor[V]{node, index})
	it.key = node.slot(index).key
	return true
}

// SeekFirst positions the iterator at the first key. Returns false if BTree is empty.
func (it *Iter[V]) SeekFirst() bool {
	if len(it.root.items) == 0 {
		it.reset()
		return false
	}

	it.version = it.root.version
	it.cursors = it.cursors[:0]

	it.index = 0
	node := it.root.node(0)
	if node == nil {
		it.key = it.root.slot(0).key
		return true
	}

	for {
		it.cursors = append(it.cursors, cursor[V]{node, 0})
		next := node.node(0)
		if next == nil {
			it.key = node.slot(0).key
			return true
		}
		node = next
	}
}

// SeekLast positions the iterator at the last key. Returns false if BTree is empty.
func (it *Iter[V]) SeekLast() bool {
	if len(it.root.items) == 0 {
		it.reset()
		return false
	}

	it.version = it.root.version
	it.cursors = it.cursors[:0]

	node := it.root.last
	if node == nil {
		it.index = len(it.root.items) - 1
		it.key = it.root.slot(it.index).key
		return true
	}
	it.index = len(it.root.items)

	for node.last != nil {
		it.cursors = append(it.cursors, cursor[V]{node, node.count})
		node = node.last
	}

	index := node.count - 1
	it.cursors = append(it.cursors, cursor[V]{node, index})
	it.key = node.slot(index).key
	return true
}

// Seek positions the iterator at the first key >= the given key.
// Returns false if no such key exists.
func (it *Iter[V]) Seek(key uint64) bool {
	if len(it.root.items) == 0 {
		it.reset()
		return false
	}

	return it.seek(key)
}

func (it *Iter[V]) seek(key uint64) bool {
	it.version = it.root.version
	it.cursors = it.cursors[:0]

	index, found := it.root.find(key)
	it.index = index
	if found {
		it.key = it.root.slot(index).key
		return true
	}
	node := it.root.node(index)
	if node == nil {
		if index < len(it.root.items) {
			it.key = it.root.slot(index).key
			return true
		}
		it.key = 0
		return false
	}

	for {
		index, found = node.find(key)
		it.cursors = append(it.cursors, cursor[V]{node, index})
		if found {
			it.key = node.slot(index).key
			return true
		}
		next := node.node(index)
		if next != nil {
			node = next
			continue
		}
		if index < node.count {
			it.key = node.slot(index).key
			return true
		}
		for l := len(it.cursors) - 1; l >= 0; l-- {
			c := &it.cursors[l]
			if c.index < c.node.count {
				it.cursors = it.cursors[:l+1]
				it.key = c.node.slot(c.index).key
				return true
			}
		}
		it.cursors = it.cursors[:0]
		if it.index < len(it.root.items) {
			it.key = it.root.slot(it.index).key
			return true
		}
		it.key = 0
		return false
	}
}
