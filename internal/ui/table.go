package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Table renders left-aligned columns separated by spaces, without borders.
// Widths are measured on the raw cell text, so style cells only through
// the per-column styles.
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
	styles     []func(string) string
}

func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
		styles:     make([]func(string) string, cols),
	}
}

// SetStyle applies render to every cell of column col after padding.
func (t *Table) SetStyle(col int, render func(string) string) {
	if col >= 0 && col < len(t.styles) {
		t.styles[col] = render
	}
}

// SetColumnStyle renders every cell of column col with style.
func (t *Table) SetColumnStyle(col int, style lipgloss.Style) {
	t.SetStyle(col, func(s string) string { return style.Render(s) })
}

// AddRow appends a row. Missing cells are empty and extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := utf8.RuneCountInString(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			if t.styles[i] != nil {
				sb.WriteString(t.styles[i](cell))
			} else {
				sb.WriteString(cell)
			}
			// The last column is never padded.
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", t.colWidths[i]-utf8.RuneCountInString(cell)))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
