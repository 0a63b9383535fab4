package ui

import "github.com/charmbracelet/lipgloss"

// Lip Gloss styles for the command line output. Colors are hex codes.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff5fd2")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	NameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5fd7ff"))

	CurrentStyle = NameStyle.
			Foreground(lipgloss.Color("#00ff5f"))

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff005f")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color("#a8a8a8")).
			MarginTop(1)
)
