// bbview is a simple CLI tool for browsing a basic-block map built from a listing.
//
// Usage:
//
//	bbview <listing>                    # interactive mode
//	bbview -l <listing>                 # list mode (print all)
//	bbview -l -n 20 <listing>           # list first 20 blocks
//	bbview -policy raise -l <listing>   # reject overlapping blocks
//
// A listing has one block per line: "addr size [payload...]".
//
// Interactive mode:
//
//	j/↓    scroll down
//	k/↑    scroll up
//	g      jump to first
//	G      jump to last
//	/      seek to address
//	q/Esc  quit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dacapoday/bbmap/analysis"
	"github.com/dacapoday/bbmap/blocks"
	"github.com/dacapoday/bbmap/knowledge"
)

func main() {
	listFlag := flag.Bool("l", false, "list mode (non-interactive)")
	countFlag := flag.Int("n", 0, "number of blocks (0 = all)")
	policyFlag := flag.String("policy", "trim", "overlap policy: trim, handle or raise")
	failFlag := flag.Bool("fail-fast", false, "stop at the first rejected block")
	verboseFlag := flag.Bool("v", false, "log conflict resolution")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bbview [-l] [-n count] [-policy trim|handle|raise] [-fail-fast] [-v] <listing>")
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	opt := option{log: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}

	policy, err := blocks.ParsePolicy(*policyFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	bbl, err := load(flag.Arg(0), opt, policy, *failFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *listFlag {
		runList(bbl, *countFlag)
		return
	}

	runInteractive(bbl)
}

type option struct {
	log *slog.Logger
}

func (o option) Logger() *slog.Logger { return o.log }

// cut shrinks the stored block so it ends where the new one starts,
// or starts where the new one ends when it lies to the right.
func cut(this, other *blocks.Block[string]) {
	if other.Start < this.Start {
		other.End = this.Start
	} else {
		other.Start = this.End
	}
}

func load(filename string, opt option, policy blocks.Policy, failFast bool) (*blocks.Map[string], error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	triples, err := readListing(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	kb := knowledge.New(opt)
	run := analysis.New("bbview", kb)
	run.FailFast = failFast

	var handler blocks.Handler[string]
	if policy == blocks.Handle {
		handler = cut
	}
	if _, err = analysis.LoadBlocks(run, triples, policy, handler); err != nil {
		return nil, err
	}
	return knowledge.BasicBlocks[string](kb)
}

func runList(bbl *blocks.Map[string], count int) {
	n := 0
	for b := range bbl.All() {
		if count > 0 && n >= count {
			break
		}
		fmt.Printf("%s %d %s\n", b.Range(), b.Size(), display(b.Value, 60))
		n++
	}
}
