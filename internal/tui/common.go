package tui

import "github.com/charmbracelet/lipgloss"

// Color palette matching the fatih/color output of the CLI
var (
	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}
	ColorGray  = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}
)

var (
	// StyleHelp is for counters and hints
	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	// StyleHeader is for the operation label
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)
)
