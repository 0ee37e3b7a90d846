package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the list uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	itemStyle    = lipgloss.NewStyle().Foreground(colorText)
	doneStyle    = lipgloss.NewStyle().Foreground(colorOverlay0).Strikethrough(true)
	cursorStyle  = lipgloss.NewStyle().Background(colorSurface0)
	dragStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorFocus).Background(colorSurface1)
	rangeStyle   = lipgloss.NewStyle().Foreground(colorText)
	frozenStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)
	statusStyle  = lipgloss.NewStyle().Foreground(colorInfo)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	inputStyle   = lipgloss.NewStyle().Foreground(colorWarning)
)
