// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package blocks implements the basic-block map: a store of decoded blocks
// indexed by the address range they occupy, with selectable resolution of
// boundary conflicts between decoding passes.
package blocks

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dacapoday/bbmap"
	"github.com/dacapoday/bbmap/interval"
)

type Addr = bbmap.Addr

// Block is one stored block: the range [Start, End) and its decoded payload.
type Block[T any] = interval.Item[T]

// Policy selects how AddBlock resolves an intersection with stored blocks.
type Policy uint8

const (
	// Trim lets the new block win: stored neighbours are shrunk to make room,
	// and neighbours it covers completely are dropped.
	Trim Policy = iota
	// Handle hands the new block and the first conflicting stored block to a
	// caller-supplied Handler, which must make them disjoint.
	Handle
	// Raise rejects the new block with a *ConflictError.
	Raise
)

func (p Policy) String() string {
	switch p {
	case Trim:
		return "trim"
	case Handle:
		return "handle"
	case Raise:
		return "raise"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// ParsePolicy maps "trim", "handle" or "raise" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "trim":
		return Trim, nil
	case "handle":
		return Handle, nil
	case "raise":
		return Raise, nil
	}
	return 0, fmt.Errorf("%w: unknown overlap policy %q", ErrInvalidArgument, s)
}

// Handler resolves a conflict under the Handle policy.
// this is the block being added and other a copy of the stored block it
// intersects. Either may be modified; the result is committed only if the
// two end up disjoint from each other and from every other stored block.
// Shrinking other to zero length drops it.
type Handler[T any] func(this, other *Block[T])

// Logger is probed on the option passed to Load.
type Logger interface {
	Logger() *slog.Logger
}

// Map stores blocks under a disjointness invariant: no two stored blocks
// share an address. The zero value is an empty map ready to use.
//
// Not thread-safe; see Sync.
type Map[T any] struct {
	seq interval.Sequence[T]
	log *slog.Logger
}

// Load applies options. opt may implement Logger and interval.CompactThreshold.
func (m *Map[T]) Load(opt any) {
	m.seq.Load(opt)
	if o, ok := opt.(Logger); ok {
		if log := o.Logger(); log != nil {
			m.log = log.With(slog.String("component", "basic_blocks"))
		}
	}
}

func (m *Map[T]) logger() *slog.Logger {
	if m.log == nil {
		return slog.Default()
	}
	return m.log
}

// AddBlock records payload as the block occupying [addr, addr+size).
//
// A zero size, or a range wrapping past the top of the address space, fails
// with ErrInvalidRange. An unknown policy, or Handle without a handler, fails
// with ErrInvalidArgument. Both are checked before anything changes.
//
// When the block intersects stored blocks, policy decides the outcome:
//   - Trim retries the insert once, giving the new block the overlap. A stored
//     block enclosing the new one on both sides cannot be trimmed and is
//     reported as a *ConflictError.
//   - Handle calls handler exactly once with the new block and the first
//     conflicting stored block. A result that still overlaps is rolled back and
//     reported as a *ConflictError.
//   - Raise returns a *ConflictError and changes nothing.
func (m *Map[T]) AddBlock(addr Addr, size uint64, payload T, policy Policy, handler Handler[T]) error {
	if size == 0 || addr+size < addr {
		return fmt.Errorf("%w: block at %#x with size %d", ErrInvalidRange, addr, size)
	}
	switch policy {
	case Trim, Raise:
	case Handle:
		if handler == nil {
			return fmt.Errorf("%w: %s policy without a handler", ErrInvalidArgument, policy)
		}
	default:
		return fmt.Errorf("%w: unknown overlap %s", ErrInvalidArgument, policy)
	}

	block := Block[T]{Start: addr, End: addr + size, Value: payload}
	err := m.seq.Insert(block, false)
	var conflict *ConflictError[T]
	if !errors.As(err, &conflict) {
		return err
	}

	switch policy {
	case Trim:
		return m.trim(block, conflict)
	case Handle:
		return m.handle(block, conflict, handler)
	}
	return err
}

func (m *Map[T]) trim(block Block[T], conflict *ConflictError[T]) error {
	err := m.seq.Insert(block, true)
	if err != nil {
		m.logger().Debug("trim unresolved",
			slog.String("block", block.Range().String()),
			slog.String("error", err.Error()))
		return err
	}
	m.logger().Debug("trimmed overlapping block",
		slog.String("block", block.Range().String()),
		slog.String("other", conflict.Other.Range().String()))
	return nil
}

func (m *Map[T]) handle(block Block[T], conflict *ConflictError[T], handler Handler[T]) error {
	this, other := conflict.This, conflict.Other
	if this.Start != block.Start {
		this, other = other, this
	}
	stored := other.Start

	handler(&this, &other)

	if this.Degenerate() {
		return &ConflictError[T]{This: this, Other: other}
	}
	if err := m.seq.Replace(stored, other, this); err != nil {
		m.logger().Debug("handler left blocks overlapping",
			slog.String("block", this.Range().String()),
			slog.String("other", other.Range().String()),
			slog.String("error", err.Error()))
		return err
	}
	m.logger().Debug("handled overlapping block",
		slog.String("block", this.Range().String()),
		slog.String("other", other.Range().String()))
	return nil
}
