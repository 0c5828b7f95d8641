package colors

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultMinContrast = 4.5
	DefaultMaxAttempts = 50

	// ContrastStep is added to or subtracted from the packed 24-bit value on
	// every adjustment attempt.
	ContrastStep = 0x111111

	maxColor = 0xFFFFFF
)

var ErrInvalidFormat = errors.New("invalid hex color")

// Adjustment is the outcome of AdjustForContrast.
type Adjustment struct {
	Color    string
	Attempts int
	Ratio    float64
}

// ParseHex decodes a 6 digit hex color, with or without a leading '#', into its
// packed 24-bit value.
func ParseHex(hex string) (int, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(raw) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, hex)
	}

	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, hex)
	}

	return int(v), nil
}

// FormatHex renders a packed value as 6 lowercase hex digits without '#'.
func FormatHex(v int) string {
	return fmt.Sprintf("%06x", clampInt(v, 0, maxColor))
}

// Normalize returns hex in canonical form: lowercase, no '#'.
func Normalize(hex string) (string, error) {
	v, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return FormatHex(v), nil
}

func HexToRGB(hex string) (int, int, int, error) {
	v, err := ParseHex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	return (v >> 16) & 0xFF, (v >> 8) & 0xFF, v & 0xFF, nil
}

func RGBToHex(r int, g int, b int) string {
	r = clampInt(r, 0, 255)
	g = clampInt(g, 0, 255)
	b = clampInt(b, 0, 255)
	return FormatHex(r<<16 | g<<8 | b)
}

// Luminance returns the relative luminance of a hex color, 0 for black and 1
// for white.
func Luminance(hex string) (float64, error) {
	v, err := ParseHex(hex)
	if err != nil {
		return 0, err
	}
	return luminance(v), nil
}

func luminance(v int) float64 {
	r := linearize(float64((v>>16)&0xFF) / 255.0)
	g := linearize(float64((v>>8)&0xFF) / 255.0)
	b := linearize(float64(v&0xFF) / 255.0)

	return 0.2126*r + 0.7152*g + 0.0722*b
}

func linearize(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ContrastRatio is symmetric in its arguments and ranges from 1 to 21.
func ContrastRatio(a string, b string) (float64, error) {
	va, err := ParseHex(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseHex(b)
	if err != nil {
		return 0, err
	}
	return contrast(va, vb), nil
}

func contrast(a int, b int) float64 {
	la := luminance(a)
	lb := luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// AdjustForContrast steps color by ContrastStep until it reaches minContrast
// against background or maxAttempts steps were taken. The direction is picked
// from the current color each step: darken above 0.5 luminance, lighten
// otherwise. The value is clamped to the 24-bit range rather than wrapping.
func AdjustForContrast(color string, background string, minContrast float64, maxAttempts int) (Adjustment, error) {
	c, err := ParseHex(color)
	if err != nil {
		return Adjustment{}, err
	}
	bg, err := ParseHex(background)
	if err != nil {
		return Adjustment{}, err
	}
	if maxAttempts < 0 {
		maxAttempts = 0
	}

	attempts := 0
	ratio := contrast(c, bg)
	for ratio < minContrast && attempts < maxAttempts {
		if luminance(c) > 0.5 {
			c -= ContrastStep
		} else {
			c += ContrastStep
		}
		c = clampInt(c, 0, maxColor)
		attempts++
		ratio = contrast(c, bg)
	}

	return Adjustment{Color: FormatHex(c), Attempts: attempts, Ratio: ratio}, nil
}

// EnsureContrast applies AdjustForContrast with the WCAG AA defaults.
func EnsureContrast(color string, background string) (string, error) {
	adj, err := AdjustForContrast(color, background, DefaultMinContrast, DefaultMaxAttempts)
	if err != nil {
		return "", err
	}
	return adj.Color, nil
}

// GetLightness returns the perceived lightness of a color (0-100 scale)
// uses the L component from LCH color space for perceptual accuracy
func GetLightness(hex string) (float64, error) {
	r, g, b, err := HexToRGB(hex)
	if err != nil {
		return 0, err
	}
	return lchLightness(r, g, b), nil
}

// RenderSwatch draws a labelled color block for terminal output. Labels are
// printed dark on light colors and light on dark ones.
func RenderSwatch(hex string, label string) string {
	v, err := ParseHex(hex)
	if err != nil {
		return label + " (invalid)"
	}

	fg := "#FFFFFF"
	if l, _ := GetLightness(hex); l > 60 {
		fg = "#000000"
	}

	css := "#" + FormatHex(v)
	block := lipgloss.NewStyle().
		Background(lipgloss.Color(css)).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1).
		Render(css)

	return block + " " + label
}

func clampInt(val int, min int, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func lchLightness(r int, g int, b int) float64 {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	// lab lightness uses the 0.04045 srgb threshold, unlike the wcag luminance above
	if rf > 0.04045 {
		rf = math.Pow((rf+0.055)/1.055, 2.4)
	} else {
		rf = rf / 12.92
	}
	if gf > 0.04045 {
		gf = math.Pow((gf+0.055)/1.055, 2.4)
	} else {
		gf = gf / 12.92
	}
	if bf > 0.04045 {
		bf = math.Pow((bf+0.055)/1.055, 2.4)
	} else {
		bf = bf / 12.92
	}

	// y of xyz (d65)
	y := rf*0.2126729 + gf*0.7151522 + bf*0.0721750

	if y > 0.008856 {
		y = math.Pow(y, 1.0/3.0)
	} else {
		y = (7.787 * y) + (16.0 / 116.0)
	}

	return (116.0 * y) - 16.0
}
