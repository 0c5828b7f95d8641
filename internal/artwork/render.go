package artwork

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// Thumbnail draws the cover in half blocks, two pixel rows per line. When
// accent is a valid hex color an extra bar in that color is drawn below the
// cover so the applied keyColor can be judged against the artwork.
func Thumbnail(img image.Image, width int, height int, accent string) []string {
	if img == nil || width < 4 || height < 2 {
		return nil
	}

	scaled := resize.Resize(uint(width), uint(height*2), img, resize.Lanczos3)
	b := scaled.Bounds()

	lines := make([]string, 0, height+1)
	for row := 0; row < height; row++ {
		top := b.Min.Y + row*2

		var line strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			upper := scaled.At(x, top)
			lower := upper
			if top+1 < b.Max.Y {
				lower = scaled.At(x, top+1)
			}
			line.WriteString(halfBlock(upper, lower))
		}
		lines = append(lines, line.String())
	}

	if bar, ok := accentBar(accent, b.Dx()); ok {
		lines = append(lines, bar)
	}
	return lines
}

func halfBlock(upper, lower color.Color) string {
	fg, fgOK := opaque(upper)
	bg, bgOK := opaque(lower)

	switch {
	case !fgOK && !bgOK:
		return " "
	case !fgOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(bg.Hex())).Render("▄")
	case !bgOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(fg.Hex())).Render("▀")
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg.Hex())).
		Background(lipgloss.Color(bg.Hex())).
		Render("▀")
}

// opaque drops pixels that are less than half covered.
func opaque(c color.Color) (colorful.Color, bool) {
	if _, _, _, a := c.RGBA(); a < 0x8000 {
		return colorful.Color{}, false
	}
	cc, ok := colorful.MakeColor(c)
	return cc, ok
}

func accentBar(accent string, width int) (string, bool) {
	if accent == "" {
		return "", false
	}
	if !strings.HasPrefix(accent, "#") {
		accent = "#" + accent
	}
	c, err := colorful.Hex(accent)
	if err != nil {
		return "", false
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(strings.Repeat("▀", width)), true
}
