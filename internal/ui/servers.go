package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muurk/plexgdm/internal/protocol"
)

var serverColumns = []string{"Name", "Address", "Port", "Version", "Identifier"}

// RenderServerTable renders servers as a bordered table. Servers that sent
// no details are shown muted with "-" placeholders.
func RenderServerTable(servers []protocol.ServerRecord) string {
	if len(servers) == 0 {
		return MutedStyle.Render("  No servers found.")
	}

	rows := make([][]string, 0, len(servers))
	for _, s := range servers {
		rows = append(rows, []string{
			orDash(s.Name),
			s.Address,
			orDash(s.Port),
			orDash(s.Version),
			orDash(s.ResourceIdentifier),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(serverColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row >= 0 && row < len(servers) && !servers[row].HasDetails() {
				return TableMutedCellStyle
			}
			return TableCellStyle
		}).
		String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
