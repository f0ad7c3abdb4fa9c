package interval

import (
	"fmt"

	"github.com/dacapoday/bbmap"
)

var (
	ErrInvalidRange    = bbmap.ErrInvalidRange
	ErrConflict        = bbmap.ErrConflict
	ErrInvalidArgument = bbmap.ErrInvalidArgument
)

// OverlapError reports an insertion that would break disjointness.
// This is the item being placed; Other is the stored item it intersects.
type OverlapError[V any] struct {
	This, Other Item[V]
}

func (e *OverlapError[V]) Error() string {
	return fmt.Sprintf("%s: [%#x, %#x) and [%#x, %#x)", ErrConflict,
		e.This.Start, e.This.End, e.Other.Start, e.Other.End)
}

func (e *OverlapError[V]) Unwrap() error {
	return ErrConflict
}

func errInvalidRange(start, end Addr) error {
	return fmt.Errorf("%w: [%#x, %#x)", ErrInvalidRange, start, end)
}
