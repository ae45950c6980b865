package tui

import "github.com/charmbracelet/lipgloss"

const (
	accentColor = "#7D56F4"
	workColor   = "#DC2626"
	breakColor  = "#16A34A"
	xpColor     = "#F7DC6F"
	dimColor    = "#626262"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(accentColor)).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accentColor)).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true)

	workStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(workColor)).
			Bold(true)

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(breakColor)).
			Bold(true)

	xpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(xpColor)).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)
