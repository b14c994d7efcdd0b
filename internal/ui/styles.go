package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the lipgloss colors matching a Theme.
type Palette struct {
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

var (
	darkPalette = Palette{
		Accent:  lipgloss.Color("39"),
		Success: lipgloss.Color("82"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Dim:     lipgloss.Color("245"),
	}
	lightPalette = Palette{
		Accent:  lipgloss.Color("27"),
		Success: lipgloss.Color("28"),
		Warning: lipgloss.Color("130"),
		Error:   lipgloss.Color("124"),
		Dim:     lipgloss.Color("240"),
	}
	noColorPalette = Palette{
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}
)

// CurrentPalette returns the palette of the active theme.
func CurrentPalette() Palette {
	switch GetCurrentTheme().Name {
	case LightTheme.Name:
		return lightPalette
	case NoColorTheme.Name:
		return noColorPalette
	}
	return darkPalette
}

// StatusKind selects the color of a status badge.
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusWarn
	StatusFail
)

// RenderStatus renders text as a bold status line colored by kind.
func RenderStatus(kind StatusKind, text string) string {
	p := CurrentPalette()
	color := p.Success
	switch kind {
	case StatusWarn:
		color = p.Warning
	case StatusFail:
		color = p.Error
	}
	return lipgloss.NewStyle().Bold(ColorEnabled()).Foreground(color).Render(text)
}

// RenderHeader renders a section title in a rounded box. Without colors the
// box is still drawn so layout does not depend on the terminal.
func RenderHeader(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentPalette().Accent).
		Padding(0, 1).
		Render(title)
}

// RenderDim renders secondary text.
func RenderDim(text string) string {
	return lipgloss.NewStyle().Foreground(CurrentPalette().Dim).Render(text)
}
