package blocks

import (
	"github.com/dacapoday/bbmap"
	"github.com/dacapoday/bbmap/interval"
)

var (
	ErrInvalidRange    = bbmap.ErrInvalidRange
	ErrConflict        = bbmap.ErrConflict
	ErrNotImplemented  = bbmap.ErrNotImplemented
	ErrInvalidArgument = bbmap.ErrInvalidArgument
)

// ConflictError carries the two blocks whose ranges intersect.
// This is the block being added; Other is the stored block it collides with.
// It matches ErrConflict under errors.Is.
type ConflictError[T any] = interval.OverlapError[T]
