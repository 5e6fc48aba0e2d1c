package draw

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used for the board and the text screens. Styles
// come from a per-connection renderer so color support matches the
// client's terminal rather than the server's.
type Theme struct {
	Border lipgloss.Style
	Title  lipgloss.Style
	Text   lipgloss.Style
	Dim    lipgloss.Style
	Accent lipgloss.Style
	Alert  lipgloss.Style
	Panel  lipgloss.Style

	// Pre-rendered cell glyphs, one per cellKind.
	cells [cellKindCount]string
}

// NewTheme builds the theme for a renderer. cellWidth is the number of
// terminal columns per grid cell.
func NewTheme(r *lipgloss.Renderer, cellWidth int) *Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	head := r.NewStyle().Foreground(lipgloss.Color("#4361ee")).Bold(true)
	body := r.NewStyle().Foreground(lipgloss.Color("#1a2a6c"))
	food := r.NewStyle().Foreground(lipgloss.Color("#fdbb2d"))

	t := &Theme{
		Border: r.NewStyle().Foreground(lipgloss.Color("#3a4a7c")),
		Title:  r.NewStyle().Foreground(lipgloss.Color("#fdbb2d")).Bold(true),
		Text:   r.NewStyle().Foreground(lipgloss.Color("#e0e0e0")),
		Dim:    r.NewStyle().Foreground(lipgloss.Color("#7a7a8c")),
		Accent: r.NewStyle().Foreground(lipgloss.Color("#4361ee")).Bold(true),
		Alert:  r.NewStyle().Foreground(lipgloss.Color("#b21f1f")).Bold(true),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4361ee")).
			Padding(0, 2),
	}

	full := strings.Repeat(string(BlockFull), cellWidth)
	t.cells[cellEmpty] = strings.Repeat(" ", cellWidth)
	t.cells[cellBody] = body.Render(full)
	t.cells[cellHead] = head.Render(full)
	t.cells[cellFood] = food.Render(foodGlyph(cellWidth))
	return t
}

func foodGlyph(cellWidth int) string {
	if cellWidth < 2 {
		return "●"
	}
	return "●" + strings.Repeat(" ", cellWidth-1)
}
