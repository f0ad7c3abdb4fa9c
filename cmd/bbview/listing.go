package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dacapoday/bbmap/analysis"
)

// readListing parses one block per line: "addr size [payload...]".
// addr and size accept a 0x prefix; '#' starts a comment.
func readListing(r io.Reader) (triples []analysis.Triple[string], err error) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want \"addr size [payload]\", got %q", line, text)
		}
		addr, err := strconv.ParseUint(fields[0], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: addr: %w", line, err)
		}
		size, err := strconv.ParseUint(fields[1], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: size: %w", line, err)
		}
		triples = append(triples, analysis.Triple[string]{
			Addr:    addr,
			Size:    size,
			Payload: strings.Join(fields[2:], " "),
		})
	}
	err = scanner.Err()
	return
}
