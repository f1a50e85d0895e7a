package tui

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87C1FF"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA07A"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF616E")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF86C8")).
			Bold(true).
			MarginLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87C1FF")).
			MarginLeft(2)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF86C8")).
				Bold(true).
				MarginLeft(2)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginLeft(2)

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8")).
			MarginLeft(2)
)

// ASCII art generated using: https://patorjk.com/software/taag/#p=display&f=Standard&t=gitship
const logo = `
        _ _       _     _
   __ _(_) |_ ___| |__ (_)_ __
  / _` + "`" + ` | | __/ __| '_ \| | '_ \
 | (_| | | |_\__ \ | | | | |_) |
  \__, |_|\__|___/_| |_|_| .__/
  |___/                  |_|
`
