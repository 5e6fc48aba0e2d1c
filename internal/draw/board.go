package draw

import (
	"strings"

	"github.com/Lam1900/Snakegame/internal/engine"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellBody
	cellHead
	cellFood
	cellKindCount
)

// Board draws a snapshot's grid inside a box border. Only cells that
// changed since the previous frame are written, which keeps SSH traffic
// small; Invalidate forces a full redraw after the screen was cleared.
type Board struct {
	tileCount int
	cellWidth int
	theme     *Theme

	// 1-based terminal position of the top-left border corner.
	col, row int

	cur   []cellKind
	prev  []cellKind
	dirty bool
}

// NewBoard creates a board for a tileCount x tileCount grid.
func NewBoard(tileCount, cellWidth int, theme *Theme) *Board {
	n := tileCount * tileCount
	return &Board{
		tileCount: tileCount,
		cellWidth: cellWidth,
		theme:     theme,
		col:       1,
		row:       1,
		cur:       make([]cellKind, n),
		prev:      make([]cellKind, n),
		dirty:     true,
	}
}

// Width is the board's width in terminal columns, border included.
func (b *Board) Width() int {
	return b.tileCount*b.cellWidth + 2
}

// Height is the board's height in terminal rows, border included.
func (b *Board) Height() int {
	return b.tileCount + 2
}

// Origin returns the 1-based terminal position of the top-left corner.
func (b *Board) Origin() (col, row int) {
	return b.col, b.row
}

// Center places the board in the middle of a termWidth x termHeight area,
// leaving headerRows free above it. It reports whether the board fits.
func (b *Board) Center(termWidth, termHeight, headerRows int) bool {
	col := (termWidth-b.Width())/2 + 1
	row := (termHeight-headerRows-b.Height())/2 + 1 + headerRows
	if col < 1 {
		col = 1
	}
	if row < 1+headerRows {
		row = 1 + headerRows
	}
	if col != b.col || row != b.row {
		b.col, b.row = col, row
		b.dirty = true
	}
	return b.Width() <= termWidth && b.Height()+headerRows <= termHeight
}

// Invalidate forces the next Draw to repaint everything.
func (b *Board) Invalidate() {
	b.dirty = true
}

// CellPosition converts a grid cell to its 1-based terminal position.
func (b *Board) CellPosition(c engine.Cell) (col, row int) {
	return b.col + 1 + c.X*b.cellWidth, b.row + 1 + c.Y
}

// Draw paints snap onto cw.
func (b *Board) Draw(cw *ChunkWriter, snap *engine.Snapshot) {
	b.fill(snap)

	if b.dirty {
		b.drawBorder(cw)
	}
	for i, kind := range b.cur {
		if !b.dirty && kind == b.prev[i] {
			continue
		}
		col, row := b.CellPosition(engine.Cell{X: i % b.tileCount, Y: i / b.tileCount})
		cw.WriteAt(col, row, b.theme.cells[kind])
	}

	b.cur, b.prev = b.prev, b.cur
	b.dirty = false
}

// fill rasterizes the snapshot into cur. Cells outside the grid (a head
// that just hit the wall) are skipped.
func (b *Board) fill(snap *engine.Snapshot) {
	clear(b.cur)
	if snap.HasFood && snap.Food.In(b.tileCount) {
		b.cur[snap.Food.Y*b.tileCount+snap.Food.X] = cellFood
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		c := snap.Snake[i]
		if !c.In(b.tileCount) {
			continue
		}
		kind := cellBody
		if i == 0 {
			kind = cellHead
		}
		b.cur[c.Y*b.tileCount+c.X] = kind
	}
}

func (b *Board) drawBorder(cw *ChunkWriter) {
	inner := strings.Repeat(BoxHorizontal, b.tileCount*b.cellWidth)
	style := b.theme.Border
	cw.WriteAt(b.col, b.row, style.Render(BoxTopLeft+inner+BoxTopRight))
	for y := 0; y < b.tileCount; y++ {
		cw.WriteAt(b.col, b.row+1+y, style.Render(BoxVertical))
		cw.WriteAt(b.col+b.Width()-1, b.row+1+y, style.Render(BoxVertical))
	}
	cw.WriteAt(b.col, b.row+b.Height()-1, style.Render(BoxBottomLeft+inner+BoxBottomRight))
}
