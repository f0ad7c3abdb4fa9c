package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/dacapoday/bbmap/blocks"
	"golang.org/x/term"
)

func runInteractive(bbl *blocks.Map[string]) {
	iter := bbl.Iter()
	iter.SeekFirst()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	v := &viewer{
		bbl:  bbl,
		iter: iter,
	}
	v.updateSize()
	v.load()

	fmt.Print("\033[?25l\033[2J") // hide cursor, clear screen once
	defer fmt.Print("\033[?25h\033[2J\033[H") // show cursor, clear screen

	reader := bufio.NewReader(os.Stdin)

	for {
		if v.updateSize() {
			v.load()
		}
		v.render()

		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		v.status = ""

		switch b {
		case 'q', 3, 27: // q, Ctrl+C, Esc
			if b == 27 && reader.Buffered() > 0 {
				// escape sequence
				b2, _ := reader.ReadByte()
				if b2 == '[' {
					b3, _ := reader.ReadByte()
					switch b3 {
					case 'A': // up
						v.up()
					case 'B': // down
						v.down()
					case '5': // page up
						reader.ReadByte()
						v.pageUp()
					case '6': // page down
						reader.ReadByte()
						v.pageDown()
					}
				}
				continue
			}
			return
		case 'j':
			v.down()
		case 'k':
			v.up()
		case 'g':
			v.first()
		case 'G':
			v.last()
		case '/':
			v.search(reader)
		}
	}
}

type viewer struct {
	bbl     *blocks.Map[string]
	iter    blocks.Iter[string]
	items   []blocks.Block[string]
	width   int
	height  int
	atStart bool // no more blocks before first
	atEnd   bool // no more blocks after last
	status  string
}

// updateSize checks terminal size and returns true if changed.
func (v *viewer) updateSize() bool {
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	if w == v.width && h == v.height {
		return false
	}
	v.width, v.height = w, h
	return true
}

func (v *viewer) lines() int {
	return v.height - 4 // title + separator + separator + status
}

func (v *viewer) load() {
	v.items = nil
	v.atStart = false
	v.atEnd = false

	if !v.iter.Valid() {
		v.iter.SeekFirst()
		if !v.iter.Valid() {
			v.atStart = true
			v.atEnd = true
			return
		}
	}

	lines := v.lines()
	for i := 0; i < lines && v.iter.Valid(); i++ {
		v.items = append(v.items, v.iter.Val())
		if !v.iter.Next() {
			v.atEnd = true
			break
		}
	}

	if len(v.items) > 0 {
		v.iter.Seek(v.items[0].Start)
		if !v.iter.Prev() {
			v.atStart = true
		}
		v.iter.Seek(v.items[0].Start)
	}
}

func (v *viewer) down() {
	if len(v.items) == 0 {
		return
	}

	last := v.items[len(v.items)-1].Start
	v.iter.Seek(last)
	if v.iter.Next() {
		v.items = append(v.items[1:], v.iter.Val())
		v.atStart = false
		if !v.iter.Next() {
			v.atEnd = true
		}
		v.iter.Seek(v.items[0].Start)
	} else if len(v.items) > 1 {
		// at end, allow scrolling until only 1 block visible
		v.items = v.items[1:]
		v.atEnd = true
	}
}

func (v *viewer) up() {
	if v.atStart || len(v.items) == 0 {
		return
	}

	first := v.items[0].Start
	v.iter.Seek(first)
	if v.iter.Prev() {
		block := v.iter.Val()
		if len(v.items) >= v.lines() {
			v.items = append([]blocks.Block[string]{block}, v.items[:len(v.items)-1]...)
		} else {
			v.items = append([]blocks.Block[string]{block}, v.items...)
		}
		v.atEnd = false
		if !v.iter.Prev() {
			v.atStart = true
		}
		v.iter.Seek(v.items[0].Start)
	}
}

func (v *viewer) pageDown() {
	for i := 0; i < v.lines()-1; i++ {
		v.down()
	}
}

func (v *viewer) pageUp() {
	for i := 0; i < v.lines()-1; i++ {
		v.up()
	}
}

func (v *viewer) first() {
	v.iter.SeekFirst()
	v.load()
}

func (v *viewer) last() {
	v.iter.SeekLast()
	// back up to show a full screen
	for i := 0; i < v.lines()-1; i++ {
		if !v.iter.Prev() {
			v.iter.SeekFirst()
			break
		}
	}
	v.load()
}

func (v *viewer) search(reader *bufio.Reader) {
	fmt.Print("\033[?25h") // show cursor
	fmt.Printf("\033[%d;1H\033[K/", v.height)

	var input []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		if b == 27 || b == 3 { // Esc or Ctrl+C
			fmt.Print("\033[?25l")
			return
		}
		if b == 13 || b == 10 { // Enter
			break
		}
		if b == 127 || b == 8 { // Backspace
			if len(input) > 0 {
				input = input[:len(input)-1]
				fmt.Print("\b \b")
			}
			continue
		}
		if b >= 32 && b < 127 {
			input = append(input, b)
			fmt.Print(string(b))
		}
	}
	fmt.Print("\033[?25l")

	if len(input) == 0 {
		return
	}

	addr, err := strconv.ParseUint(string(input), 0, 64)
	if err != nil {
		v.status = "bad address: " + display(string(input), 20)
		return
	}

	if block, found := v.bbl.GetBlock(addr); found {
		v.iter.Seek(block.Start)
		v.status = fmt.Sprintf("%#x in %s", addr, block.Range())
	} else if v.iter.Seek(addr) {
		v.status = fmt.Sprintf("%#x not mapped, next block", addr)
	} else {
		v.status = "not found"
		return
	}
	v.load()
}

func (v *viewer) render() {
	var b strings.Builder

	b.WriteString("\033[H")

	b.WriteString(fmt.Sprintf("[ bbview: %d blocks ]\033[K\r\n", v.bbl.Len()))
	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	rangeWidth := 40
	valWidth := v.width - rangeWidth - 2
	if valWidth < 20 {
		valWidth = 20
	}

	lines := v.lines()
	for i := 0; i < lines; i++ {
		if i < len(v.items) {
			it := v.items[i]
			b.WriteString(fmt.Sprintf("%-*s", rangeWidth, fmt.Sprintf("%s %d", it.Range(), it.Size())))
			b.WriteString("  ")
			b.WriteString(display(it.Value, valWidth))
		} else {
			b.WriteString("~")
		}
		b.WriteString("\033[K\r\n")
	}

	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	pos := ""
	if v.atStart && v.atEnd {
		pos = "[all]"
	} else if v.atStart {
		pos = "[top]"
	} else if v.atEnd {
		pos = "[end]"
	}

	if v.status != "" {
		b.WriteString(" ")
		b.WriteString(v.status)
		b.WriteString(" ")
		b.WriteString(pos)
	} else {
		b.WriteString(" j/k:scroll g/G:jump /:address q:quit ")
		b.WriteString(pos)
	}
	b.WriteString("\033[K")

	fmt.Print(b.String())
}

// display formats a payload for display, truncating if needed.
func display(s string, maxLen int) string {
	if s == "" {
		return "(empty)"
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsPrint(r) {
			runes[i] = '.'
		}
	}
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return string(runes)
}
