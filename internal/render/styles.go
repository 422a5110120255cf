// Package render formats braiding output for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/threadloom/braid/internal/braid"
)

// Thread color scheme - each braid type keeps a distinct, consistent color.
var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray - timestamps, metadata

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray - labels

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")) // White - values

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")) // White bold - headers

	// Thread patterns
	sequentialStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")) // White

	debateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")) // Red

	consensusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	parallelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")) // Blue

	hierarchicalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")) // Yellow

	semanticStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("13")) // Magenta

	temporalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")) // Cyan

	// Outcomes
	strongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green - strong links

	weakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // Red - weak links

	divider = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(strings.Repeat("━", 60))
)

// threadStyle picks the style for a braid type.
func threadStyle(t braid.BraidType) lipgloss.Style {
	switch t {
	case braid.BraidDebate:
		return debateStyle
	case braid.BraidConsensus:
		return consensusStyle
	case braid.BraidParallel:
		return parallelStyle
	case braid.BraidHierarchical:
		return hierarchicalStyle
	case braid.BraidSemantic:
		return semanticStyle
	case braid.BraidTemporal:
		return temporalStyle
	}
	return sequentialStyle
}

// strengthStyle picks a style for a connection strength.
func strengthStyle(strength float64) lipgloss.Style {
	if strength >= 0.7 {
		return strongStyle
	}
	if strength < 0.4 {
		return weakStyle
	}
	return valueStyle
}
