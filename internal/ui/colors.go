package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Default palette colors.
const (
	ColorTitle   = "#7D56F4"
	ColorSuccess = "#04B575"
	ColorError   = "#FF0000"
	ColorWarn    = "#FFA500"
	ColorHelp    = "#626262"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette builds the default palette for w. The color profile is detected from w.
func NewPalette(w io.Writer) *Palette {
	r := lipgloss.NewRenderer(w)
	return &Palette{
		title: newBold(r, ColorTitle),
		ok:    newBold(r, ColorSuccess),
		err:   newBold(r, ColorError),
		warn:  newStyle(r, ColorWarn),
		help:  newStyle(r, ColorHelp).Italic(true),
	}
}

func (p *Palette) Title(s string) string   { return p.title.Render(s) }
func (p *Palette) Success(s string) string { return p.ok.Render(s) }
func (p *Palette) Error(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string    { return p.warn.Render(s) }
func (p *Palette) Help(s string) string    { return p.help.Render(s) }

func newStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return newStyle(r, fg).Bold(true)
}
