package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers(headers...)

	for _, row := range rows {
		t.Row(row...)
	}

	return t.String()
}

// RenderStatusTable renders variable rows of NAME, STATUS, SOURCE, VALUE,
// colouring the status column.
func RenderStatusTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers("VARIABLE", "STATUS", "SOURCE", "VALUE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(Primary)
			}
			if col == 1 && row >= 0 && row < len(rows) {
				if rows[row][1] == StatusMissing {
					return lipgloss.NewStyle().Foreground(ColorWarning)
				}
				return lipgloss.NewStyle().Foreground(ColorSuccess)
			}
			return lipgloss.Style{}
		})

	for _, row := range rows {
		t.Row(row...)
	}

	return fmt.Sprintf("\n%s\n", t.String())
}

// Status values shown by RenderStatusTable.
const (
	StatusDefined = "defined"
	StatusMissing = "missing"
)
