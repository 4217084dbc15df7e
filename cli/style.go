package cli

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#F97316")
	dim    = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#DC2626")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(danger)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)

// messageBox renders a titled, bordered block of text
func messageBox(title, body string) string {
	return boxStyle.Render(titleStyle.Render(title) + "\n\n" + body)
}
