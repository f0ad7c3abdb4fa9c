package iterator

// Live wraps a Tombstoned iterator and skips entries marked as deleted.
//
// Valid, Error, Key and Val are forwarded to the source. Positioning methods
// keep moving in the same direction until they land on a live entry.
type Live[V any, Source Tombstoned[V]] struct {
	src Source
}

// Load initializes the iterator over src.
func (iter *Live[V, Source]) Load(src Source) {
	iter.src = src
}

// Source returns the wrapped iterator.
func (iter *Live[V, Source]) Source() Source {
	return iter.src
}

var _ Iterator[any] = (*Live[any, Tombstoned[any]])(nil)

// Valid returns true if positioned at a live entry.
func (iter *Live[V, Source]) Valid() bool {
	return iter.src.Valid() && !iter.src.Deleted()
}

// Error returns the source error.
func (iter *Live[V, Source]) Error() error {
	return iter.src.Error()
}

// Key returns the current key.
func (iter *Live[V, Source]) Key() uint64 {
	return iter.src.Key()
}

// Val returns the current value.
func (iter *Live[V, Source]) Val() V {
	return iter.src.Val()
}

// Next advances to the next live entry.
func (iter *Live[V, Source]) Next() bool {
	for {
		if !iter.src.Next() {
			return false
		}
		if iter.src.Deleted() {
			continue
		}
		return true
	}
}

// Prev moves to the previous live entry.
func (iter *Live[V, Source]) Prev() bool {
	for {
		if !iter.src.Prev() {
			return false
		}
		if iter.src.Deleted() {
			continue
		}
		return true
	}
}

// SeekFirst positions at the first live entry.
func (iter *Live[V, Source]) SeekFirst() bool {
	if !iter.src.SeekFirst() {
		return false
	}
	if iter.src.Deleted() {
		return iter.Next()
	}
	return true
}

// SeekLast positions at the last live entry.
func (iter *Live[V, Source]) SeekLast() bool {
	if !iter.src.SeekLast() {
		return false
	}
	if iter.src.Deleted() {
		return iter.Prev()
	}
	return true
}

// Seek positions at the first live entry with key >= the given key.
func (iter *Live[V, Source]) Seek(key uint64) bool {
	if !iter.src.Seek(key) {
		return false
	}
	if iter.src.Deleted() {
		return iter.Next()
	}
	return true
}
