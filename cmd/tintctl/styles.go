package main

import "github.com/charmbracelet/lipgloss"

var (
	Primary = lipgloss.Color("#FF6B35")
	Success = lipgloss.Color("#4CAF50")
	Error   = lipgloss.Color("#F44336")
	Text    = lipgloss.Color("#E0E0E0")
	Muted   = lipgloss.Color("#90A4AE")

	BorderDark = lipgloss.Color("#30363D")
)

var (
	HeaderStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDark).
		Foreground(Text).
		Padding(0, 2)

	KeyStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ActiveStyle = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	MutedStyle = lipgloss.NewStyle().
		Foreground(Muted)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(Error)
)
