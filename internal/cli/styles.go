package cli

import "github.com/charmbracelet/lipgloss"

const (
	dotDone = "●"
	dotOpen = "·"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	todayStyle = dayStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true)

	selectedStyle = dayStyle.
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)
)

func colorStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
