// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package bbmap defines the address types shared by the basic-block map components.
package bbmap

import "fmt"

// Addr is a byte offset in the address space of the analyzed program.
type Addr = uint64

// Range is a half-open address range [Start, End).
type Range struct {
	// Start is the inclusive start of the range.
	Start Addr

	// End is the exclusive end of the range.
	End Addr
}

// WellFormed returns true if r.Start <= r.End.
// All other methods on a Range require that the Range is well-formed.
func (r Range) WellFormed() bool {
	return r.Start <= r.End
}

// Empty returns true if the range covers no address.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Len returns the number of addresses in the range.
func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains returns true if r contains addr.
func (r Range) Contains(addr Addr) bool {
	return r.Start <= addr && addr < r.End
}

// Overlaps returns true if r and r2 share at least one address.
func (r Range) Overlaps(r2 Range) bool {
	return r.Start < r2.End && r2.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Start, r.End)
}
