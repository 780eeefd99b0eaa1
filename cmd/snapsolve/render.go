package main

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

const wrapWidth = 100

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderMarkdown renders an answer for the terminal, falling back to the raw
// text when the renderer is unavailable.
func renderMarkdown(md string) string {
	var style ansi.StyleConfig
	if lipgloss.HasDarkBackground() {
		style = styles.DarkStyleConfig
	} else {
		style = styles.LightStyleConfig
	}

	uintPtr := func(u uint) *uint { return &u }
	style.Document.Margin = uintPtr(0)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return md + "\n"
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md + "\n"
	}
	return strings.TrimLeft(out, "\n")
}
