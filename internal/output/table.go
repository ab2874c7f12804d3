package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/opmodel/cratekit/internal/action"
)

// Columns of the results table.
const (
	colStatus = iota
	colPath
	colDetail
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// resultTable renders action results one per row, coloring the status
// column by outcome.
func resultTable(results []action.Result) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorDimGray)).
		Headers("STATUS", "PATH", "DETAIL").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case colStatus:
				return StatusStyle(results[row].Kind).Padding(0, 1)
			case colPath:
				return StyleNoun.Padding(0, 1)
			default:
				return tableCellStyle
			}
		})

	for _, r := range results {
		tbl.Row(r.Kind.String(), r.Path, resultDetail(r))
	}

	return tbl.String()
}

// resultDetail is the DETAIL cell for r.
func resultDetail(r action.Result) string {
	switch r.Kind {
	case action.BackedUp:
		return "-> " + r.BackupPath
	case action.Failed:
		if r.Err != nil {
			return r.Err.Error()
		}
	}
	return r.Detail
}
