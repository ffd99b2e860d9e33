package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorBorder  lipgloss.Color = "#585b70"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorSurface lipgloss.Color = "#313244"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	headerStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	incomeStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	expenseStyle  = lipgloss.NewStyle().Foreground(colorError)
	selectedStyle = lipgloss.NewStyle().Background(colorSurface).Foreground(colorText).Bold(true)
	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
)
