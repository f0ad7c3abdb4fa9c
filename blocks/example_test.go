package blocks_test

import (
	"fmt"

	"github.com/dacapoday/bbmap/blocks"
)

func Example() {
	var bbl blocks.Map[string]

	// A first pass decodes a block it believes runs to 0x1020.
	bbl.AddBlock(0x1000, 0x20, "entry", blocks.Trim, nil)

	// A later pass finds a jump target at 0x1010.
	bbl.AddBlock(0x1010, 0x18, "loop", blocks.Trim, nil)

	for b := range bbl.All() {
		fmt.Printf("%s %s\n", b.Range(), b.Value)
	}

	// Raise refuses to touch the map.
	err := bbl.AddBlock(0x1020, 0x10, "tail", blocks.Raise, nil)
	fmt.Println(err)

	// Output:
	// [0x1000, 0x1010) entry
	// [0x1010, 0x1028) loop
	// overlapping blocks: [0x1020, 0x1030) and [0x1010, 0x1028)
}

func ExampleHandler() {
	var bbl blocks.Map[string]
	bbl.AddBlock(0x400, 0x10, "head", blocks.Trim, nil)

	cut := func(this, other *blocks.Block[string]) {
		other.End = this.Start
	}
	err := bbl.AddBlock(0x408, 0x10, "split", blocks.Handle, cut)
	fmt.Println(err)

	block, _ := bbl.GetBlock(0x404)
	fmt.Println(block.Range(), block.Size())

	// Output:
	// <nil>
	// [0x400, 0x408) 8
}
