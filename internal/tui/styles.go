package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent    = lipgloss.Color("#FF4E45")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	accentStyle = lipgloss.NewStyle().
			Foreground(Accent)

	selectedStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(lipgloss.Color("#374151")).
			Bold(true)

	missingStyle = lipgloss.NewStyle().
			Foreground(Red).
			Strikethrough(true)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(Green)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(Red)

	channelStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	footerStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)
