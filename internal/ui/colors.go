package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = newPalette()

// Palette holds the [lipgloss.Style] set shared by every view.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func newPalette() *Palette {
	return &Palette{
		title: bold("#7D56F4").MarginBottom(1),
		ok:    bold("#04B575"),
		err:   bold("#E84855"),
		warn:  fg("#FFA500"),
		help:  fg("#626262").Italic(true),
	}
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func bold(c string) lipgloss.Style {
	return fg(c).Bold(true)
}
