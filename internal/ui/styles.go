package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(1)

	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	balanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89b4fa")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))

	labelStyle = lipgloss.NewStyle().Width(18)

	focusedInputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#cdd6f4")).
				Background(lipgloss.Color("#313244"))
)
