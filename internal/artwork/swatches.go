package artwork

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/EdlinOrg/prominentcolor"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const clusterCount = 8

// Swatch names, in the order they are filled.
const (
	Vibrant      = "Vibrant"
	DarkVibrant  = "DarkVibrant"
	LightVibrant = "LightVibrant"
	Muted        = "Muted"
	DarkMuted    = "DarkMuted"
	LightMuted   = "LightMuted"
)

// Swatches maps a swatch name to a "#rrggbb" color.
type Swatches map[string]string

// Get returns the swatch without its leading '#'.
func (s Swatches) Get(name string) (string, bool) {
	hex, ok := s[name]
	if !ok || hex == "" {
		return "", false
	}
	return strings.TrimPrefix(hex, "#"), true
}

type target struct {
	name                         string
	minLuma, targetLuma, maxLuma float64
	minSat, targetSat, maxSat    float64
}

var targets = []target{
	{Vibrant, 0.3, 0.5, 0.7, 0.35, 1, 1},
	{LightVibrant, 0.55, 0.74, 1, 0.35, 1, 1},
	{DarkVibrant, 0, 0.26, 0.45, 0.35, 1, 1},
	{Muted, 0.3, 0.5, 0.7, 0, 0.3, 0.4},
	{LightMuted, 0.55, 0.74, 1, 0, 0.3, 0.4},
	{DarkMuted, 0, 0.26, 0.45, 0, 0.3, 0.4},
}

type candidate struct {
	color      colorful.Color
	sat, luma  float64
	population int
}

// ExtractSwatches clusters the image and assigns the clusters to named
// swatches by how close their saturation and lightness are to each target.
// A swatch is absent when no cluster falls inside its ranges.
func ExtractSwatches(img image.Image) (Swatches, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrPaletteExtraction)
	}

	items, err := prominentcolor.KmeansWithAll(clusterCount, img, prominentcolor.ArgumentNoCropping, prominentcolor.DefaultSize, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaletteExtraction, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no clusters", ErrPaletteExtraction)
	}

	candidates := make([]candidate, 0, len(items))
	maxPopulation := 0
	for _, it := range items {
		c := colorful.Color{
			R: float64(it.Color.R) / 255.0,
			G: float64(it.Color.G) / 255.0,
			B: float64(it.Color.B) / 255.0,
		}
		_, s, l := c.Hsl()
		candidates = append(candidates, candidate{color: c, sat: s, luma: l, population: it.Cnt})
		if it.Cnt > maxPopulation {
			maxPopulation = it.Cnt
		}
	}

	return assign(candidates, maxPopulation), nil
}

func assign(candidates []candidate, maxPopulation int) Swatches {
	out := make(Swatches, len(targets))
	used := make([]bool, len(candidates))

	for _, t := range targets {
		best := -1
		bestScore := math.Inf(-1)
		for i, c := range candidates {
			if used[i] {
				continue
			}
			if c.luma < t.minLuma || c.luma > t.maxLuma || c.sat < t.minSat || c.sat > t.maxSat {
				continue
			}
			score := scoreCandidate(c, t, maxPopulation)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			used[best] = true
			out[t.name] = candidates[best].color.Clamped().Hex()
		}
	}

	return out
}

func scoreCandidate(c candidate, t target, maxPopulation int) float64 {
	satScore := 1 - math.Abs(c.sat-t.targetSat)
	lumaScore := 1 - math.Abs(c.luma-t.targetLuma)
	popScore := 0.0
	if maxPopulation > 0 {
		popScore = float64(c.population) / float64(maxPopulation)
	}
	return satScore*3 + lumaScore*6.5 + popScore*0.5
}
