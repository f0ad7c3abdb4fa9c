package analysis

import (
	"fmt"
	"log/slog"

	"github.com/dacapoday/bbmap/blocks"
	"github.com/dacapoday/bbmap/knowledge"
)

// Triple is one decoded block as produced by a decoder.
type Triple[T any] struct {
	Addr    blocks.Addr
	Size    uint64
	Payload T
}

// Stats summarizes a LoadBlocks run.
type Stats struct {
	Added  int // triples accepted by the map
	Failed int // triples rejected and recorded as errors
	Blocks int // blocks in the map afterwards
}

// LoadBlocks adds triples to the basic-block map of r.KB in order, each under
// Resilience named "add_block". With r.FailFast the first rejected triple
// stops the load and its error is returned.
func LoadBlocks[T any](r *Run, triples []Triple[T], policy blocks.Policy, handler blocks.Handler[T]) (stats Stats, err error) {
	bbl, err := knowledge.BasicBlocks[T](r.KB)
	if err != nil {
		return
	}

	total := len(triples)
	for i, t := range triples {
		var added bool
		err = r.Resilience("add_block", func() error {
			if err := bbl.AddBlock(t.Addr, t.Size, t.Payload, policy, handler); err != nil {
				return fmt.Errorf("add block %#x+%d: %w", t.Addr, t.Size, err)
			}
			added = true
			return nil
		})
		if err != nil {
			stats.Failed++
			stats.Blocks = bbl.Len()
			return
		}
		if added {
			stats.Added++
		} else {
			stats.Failed++
		}
		r.UpdateProgress(100 * float64(i+1) / float64(total))
	}
	r.FinishProgress()

	stats.Blocks = bbl.Len()
	r.log.Info("loaded blocks",
		slog.Int("added", stats.Added),
		slog.Int("failed", stats.Failed),
		slog.Int("blocks", stats.Blocks),
		slog.String("policy", policy.String()))
	return
}
