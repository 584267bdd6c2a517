package cli

import "github.com/charmbracelet/lipgloss"

// Shared color palette and styles for command output.
var (
	colorCyan  = lipgloss.Color("14")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
	colorWhite = lipgloss.Color("15")
	colorRed   = lipgloss.Color("9")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel  = lipgloss.NewStyle().Foreground(colorGray)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleNotice = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)
