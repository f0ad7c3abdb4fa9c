// Package iterator defines cursors over address-keyed datasets.
package iterator

// Iterator represents a cursor over a dataset sorted by uint64 key.
// The iterator maintains a current position and can be moved forward or backward
// through the dataset in ascending key order.
//
// Usage:
//
//	for iter.SeekFirst(); iter.Valid(); iter.Next() {
//	    key, val := iter.Key(), iter.Val()
//	    // process key, val
//	}
//	if err := iter.Error(); err != nil {
//	    // handle error
//	}
type Iterator[V any] interface {
	// Valid returns true if positioned at a valid entry.
	// Returns false when not positioned; check Error() to distinguish the cause.
	Valid() bool

	// Error returns any error that occurred during operations.
	// Returns nil when not positioned due to normal conditions (initial state,
	// boundary reached, empty dataset).
	Error() error

	// Key returns the key at the current iterator position.
	// Behavior is undefined if Valid() returns false.
	Key() uint64

	// Val returns the value at the current iterator position.
	// Behavior is undefined if Valid() returns false.
	Val() V

	// Next advances the iterator to the next entry in ascending order.
	// Returns true if the iterator is positioned at a valid entry.
	Next() bool

	// Prev moves the iterator to the previous entry in descending order.
	// Returns true if the iterator is positioned at a valid entry.
	Prev() bool

	// SeekFirst positions the iterator at the entry with the smallest key.
	// Returns false if the dataset is empty or an error occurred.
	SeekFirst() bool

	// SeekLast positions the iterator at the entry with the largest key.
	// Returns false if the dataset is empty or an error occurred.
	SeekLast() bool

	// Seek positions the iterator at the first entry whose key is greater
	// than or equal to key. Returns true if positioned at a valid entry.
	Seek(key uint64) bool
}

// Tombstoned is an Iterator that also visits deleted entries and reports them.
type Tombstoned[V any] interface {
	Iterator[V]

	// Deleted returns true if the current entry is a tombstone.
	Deleted() bool
}
