package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"

	"karolbroda.com/adaptiveaccents/internal/accent"
	"karolbroda.com/adaptiveaccents/internal/artwork"
	"karolbroda.com/adaptiveaccents/internal/colors"
	"karolbroda.com/adaptiveaccents/internal/pipeline"
	"karolbroda.com/adaptiveaccents/internal/settings"
)

const (
	dimColor    = "#6c6c6c"
	accentColor = "#fa586a"
)

// Banner renders the program name in figlet letters.
func Banner(text string) []string {
	return figure.NewFigure(text, "small", true).Slicify()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width == 0 {
		width = 80
	}

	headerColor := accentColor
	if m.keyColor != "" {
		headerColor = m.keyColor
	}

	var lines []string
	header := lipgloss.NewStyle().Foreground(lipgloss.Color(headerColor)).Bold(true)
	for _, l := range Banner("accents") {
		lines = append(lines, header.Render(l))
	}
	lines = append(lines, "")

	if m.result == nil {
		lines = append(lines, m.renderWaiting(width))
		lines = append(lines, "", m.renderStatus())
		return strings.Join(lines, "\n")
	}

	info := m.renderInfo()
	art := []string(nil)
	if m.termCaps.SupportsRGB && width >= 50 {
		art = artwork.Thumbnail(m.image, 16, 8, m.keyColor)
	}

	lines = append(lines, sideBySide(art, info, 16)...)
	lines = append(lines, "", m.renderStatus())

	return strings.Join(lines, "\n")
}

func (m Model) renderWaiting(width int) string {
	pulseChars := []string{"·", "•", "●", "•"}
	pulse := pulseChars[m.tickCount%len(pulseChars)]
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor)).Italic(true)
	return centerText(style.Render(pulse+" awaiting music"), len("x awaiting music"), width)
}

func (m Model) renderInfo() []string {
	res := m.result
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))
	bold := lipgloss.NewStyle().Bold(true)

	var lines []string
	lines = append(lines, bold.Render(res.Item.Describe()))
	if res.Album != nil && res.Album.Attributes != nil && res.Album.Attributes.Name != "" {
		lines = append(lines, dim.Render(res.Album.Attributes.Name))
	}
	lines = append(lines, dim.Render("resolved "+res.Resolution.String()))
	lines = append(lines, "")
	lines = append(lines, renderTarget("keyColor", m.keyColor, res.Colors.KeyColor))
	lines = append(lines, renderTarget("musicKeyColor", m.musicKeyColor, res.Colors.MusicKeyColor))

	if m.err != nil {
		lines = append(lines, "", dim.Render("artwork: "+m.err.Error()))
	}

	return lines
}

func renderTarget(label string, written string, applied *accent.Applied) string {
	if applied == nil {
		return fmt.Sprintf("%s: left to %s", label, settings.SwatchHost)
	}

	detail := applied.Source
	if applied.Adjusted {
		detail = fmt.Sprintf("%s, #%s adjusted in %d steps", applied.Source, applied.Raw, applied.Attempts)
	}
	if written == "" {
		written = applied.CSS()
	}
	return fmt.Sprintf("%s (%s)", colors.RenderSwatch(written, label), detail)
}

func (m Model) renderStatus() string {
	state := pipeline.Idle
	if m.status != nil {
		state = m.status()
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor))
	line := dim.Render(state.String() + " · q to quit")
	if state == pipeline.Processing {
		return m.spinner.View() + " " + line
	}
	return "  " + line
}

func sideBySide(left []string, right []string, leftWidth int) []string {
	if len(left) == 0 {
		return right
	}

	n := len(left)
	if len(right) > n {
		n = len(right)
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		l := strings.Repeat(" ", leftWidth)
		if i < len(left) {
			l = left[i]
		}
		r := ""
		if i < len(right) {
			r = right[i]
		}
		out[i] = "  " + l + "  " + r
	}
	return out
}

func centerText(text string, visualWidth int, screenWidth int) string {
	padding := (screenWidth - visualWidth) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + text
}
