// Package draw renders game snapshots to ANSI terminals.
package draw

import (
	"fmt"
	"io"
)

// BlockFull fills one terminal column of a snake cell.
const BlockFull = '█'

// Box drawing for the board border.
const (
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}
