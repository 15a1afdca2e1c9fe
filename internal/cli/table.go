package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// textTable collects rows for a bordered terminal table
type textTable struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *textTable {
	return &textTable{headers: headers}
}

// Row adds a row to the table
func (t *textTable) Row(cells ...string) *textTable {
	t.rows = append(t.rows, cells)
	return t
}

// Render draws the table
func (t *textTable) Render() string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}
