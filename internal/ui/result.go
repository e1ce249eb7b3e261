package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderSuccess renders a green result box with ordered details.
func RenderSuccess(title string, details []Param, width int) string {
	return renderResult(SuccessTitleStyle.Render(fmt.Sprintf("%s  %s", SuccessMarker, title)), details, SuccessColor, width)
}

// RenderFailure renders a red result box with ordered details.
func RenderFailure(title string, details []Param, width int) string {
	return renderResult(ErrorTitleStyle.Render(fmt.Sprintf("%s  %s", FailureMarker, title)), details, ErrorColor, width)
}

func renderResult(title string, details []Param, border lipgloss.Color, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{title}
	if len(details) > 0 {
		lines = append(lines, "")
	}
	for _, d := range details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}
