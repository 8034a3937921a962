package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal.
const DefaultTermWidth = 100

// DisplayContext describes the terminal notes are printed to.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	isTTY := term.IsTerminal(fd)

	width := DefaultTermWidth
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	return &DisplayContext{TermWidth: width, IsTTY: isTTY}
}

// AvailableWidth returns the width left after a left margin, never less
// than 20 columns.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	if w := d.TermWidth - leftMargin; w > 20 {
		return w
	}
	return 20
}
