package draw

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Lam1900/Snakegame/internal/engine"
)

func plainTheme() *Theme {
	return NewTheme(lipgloss.NewRenderer(io.Discard), 2)
}

func snapshotWith(snake []engine.Cell, food engine.Cell) *engine.Snapshot {
	return &engine.Snapshot{
		Snake:     snake,
		Food:      food,
		HasFood:   true,
		TileCount: 4,
	}
}

func TestBoardDrawsOnlyChanges(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	b := NewBoard(4, 2, plainTheme())

	snap := snapshotWith([]engine.Cell{{X: 1, Y: 1}}, engine.Cell{X: 3, Y: 3})
	b.Draw(cw, snap)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	first := out.String()
	if !strings.Contains(first, BoxTopLeft) || !strings.Contains(first, "●") {
		t.Fatalf("expected border and food in first frame, got %q", first)
	}

	out.Reset()
	b.Draw(cw, snap)
	cw.Flush()
	if out.Len() != 0 {
		t.Fatalf("expected unchanged frame to write nothing, got %q", out.String())
	}

	out.Reset()
	b.Draw(cw, snapshotWith([]engine.Cell{{X: 2, Y: 1}}, engine.Cell{X: 3, Y: 3}))
	cw.Flush()
	// Old head cleared, new head drawn.
	if got := strings.Count(out.String(), "\033["); got != 2 {
		t.Fatalf("expected 2 cell updates, got %d in %q", got, out.String())
	}

	out.Reset()
	b.Invalidate()
	b.Draw(cw, snapshotWith([]engine.Cell{{X: 2, Y: 1}}, engine.Cell{X: 3, Y: 3}))
	cw.Flush()
	if !strings.Contains(out.String(), BoxTopLeft) {
		t.Fatal("expected border after invalidate")
	}
}

func TestBoardSkipsCellsOffGrid(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	b := NewBoard(4, 2, plainTheme())

	b.Draw(cw, snapshotWith([]engine.Cell{{X: -1, Y: 2}, {X: 0, Y: 2}}, engine.Cell{X: 3, Y: 3}))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
}

func TestBoardCenter(t *testing.T) {
	b := NewBoard(20, 2, plainTheme())
	if b.Width() != 42 || b.Height() != 22 {
		t.Fatalf("unexpected size %dx%d", b.Width(), b.Height())
	}
	if !b.Center(80, 30, 2) {
		t.Fatal("expected board to fit in 80x30")
	}
	col, row := b.Origin()
	if col != 20 || row != 6 {
		t.Fatalf("expected origin (20,6), got (%d,%d)", col, row)
	}
	if b.Center(30, 10, 2) {
		t.Fatal("expected board not to fit in 30x10")
	}

	col, row = b.CellPosition(engine.Cell{X: 1, Y: 0})
	if col != 4 || row != 4 {
		t.Fatalf("expected cell (1,0) at (4,4), got (%d,%d)", col, row)
	}
}

func TestWriteCenteredIgnoresStyling(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.WriteCentered(10, 1, "abcd")
	cw.Flush()
	if got := out.String(); got != "\033[1;8Habcd" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestThemeCellGlyphs(t *testing.T) {
	th := NewTheme(lipgloss.NewRenderer(io.Discard), 2)

	full := strings.Repeat(string(BlockFull), 2)
	if !strings.Contains(th.cells[cellHead], full) || !strings.Contains(th.cells[cellBody], full) {
		t.Fatalf("expected snake cells to be two full blocks, got %q %q", th.cells[cellHead], th.cells[cellBody])
	}
	if th.cells[cellEmpty] != "  " {
		t.Fatalf("expected empty cell to be blank, got %q", th.cells[cellEmpty])
	}
	if lipgloss.Width(th.cells[cellFood]) != 2 {
		t.Fatalf("expected food glyph to fill one cell, got %q", th.cells[cellFood])
	}
}
