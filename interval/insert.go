package interval

import (
	"fmt"
	"slices"
)

// Insert places item into the sequence.
//
// Without secondChance, an item intersecting any stored item is not placed and
// an *OverlapError naming the first intersecting item by address is returned.
//
// With secondChance, intersecting neighbours are trimmed so that item owns the
// overlap: a left neighbour ends at item.Start, a right neighbour starts at
// item.End, and a neighbour lying entirely inside item is removed. A neighbour
// enclosing item on both sides cannot be trimmed to a single range; Insert then
// returns an *OverlapError for it. The plan is checked before anything is
// mutated, so a failed Insert leaves the sequence unchanged.
func (seq *Sequence[V]) Insert(item Item[V], secondChance bool) error {
	if item.Degenerate() {
		return errInvalidRange(item.Start, item.End)
	}

	others := slices.Collect(seq.Overlapping(&item.Start, &item.End))
	if len(others) == 0 {
		seq.tree.Set(item.Start, item)
		return nil
	}
	if !secondChance {
		return &OverlapError[V]{This: item, Other: others[0]}
	}

	for _, other := range others {
		if other.Start < item.Start && other.End > item.End {
			return &OverlapError[V]{This: item, Other: other}
		}
	}

	for _, other := range others {
		switch {
		case other.Start < item.Start:
			other.End = item.Start
			seq.tree.Set(other.Start, other)
		case other.End > item.End:
			seq.tree.Delete(other.Start)
			other.Start = item.End
			seq.tree.Set(other.Start, other)
		default:
			seq.tree.Delete(other.Start)
		}
	}
	seq.tree.Set(item.Start, item)
	return nil
}

// Remove drops the item starting at start. Returns false if there is none.
func (seq *Sequence[V]) Remove(start Addr) bool {
	return seq.tree.Delete(start)
}

// Replace removes the item starting at start and inserts items in its place,
// each without a second chance. Degenerate items are skipped.
// If any insert fails, every change is undone and the error is returned.
func (seq *Sequence[V]) Replace(start Addr, items ...Item[V]) error {
	old, found := seq.tree.Get(start)
	if !found {
		return fmt.Errorf("%w: no item starts at %#x", ErrInvalidArgument, start)
	}
	seq.tree.Delete(start)

	placed := make([]Addr, 0, len(items))
	for _, item := range items {
		if item.Degenerate() {
			continue
		}
		if err := seq.Insert(item, false); err != nil {
			for _, addr := range placed {
				seq.tree.Delete(addr)
			}
			seq.tree.Set(old.Start, old)
			return err
		}
		placed = append(placed, item.Start)
	}
	return nil
}
