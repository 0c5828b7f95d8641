package accent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applemusic "github.com/minchao/go-apple-music"
	"go.uber.org/zap"

	"karolbroda.com/adaptiveaccents/internal/album"
	"karolbroda.com/adaptiveaccents/internal/artwork"
	"karolbroda.com/adaptiveaccents/internal/colors"
	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/settings"
)

const (
	blackBackground = "000000"
	whiteBackground = "ffffff"
)

var (
	ErrMissingArtwork = errors.New("album has no artwork")
	ErrUnknownSwatch  = errors.New("unknown swatch")
)

// Applied is one resolved accent target.
type Applied struct {
	// Source is the descriptor field or extracted swatch the color came from.
	Source     string
	Raw        string
	Color      string
	Background string
	Adjusted   bool
	Attempts   int
}

// CSS is the value written to the display.
func (a *Applied) CSS() string {
	return "#" + a.Color
}

// Colors holds both targets. A nil target is left to the host.
type Colors struct {
	KeyColor      *Applied
	MusicKeyColor *Applied
}

func (c Colors) Empty() bool {
	return c.KeyColor == nil && c.MusicKeyColor == nil
}

// Background picks the color a swatch is measured against. An "auto"
// appearance follows the system preference.
func Background(appearance string, immersive bool, prefersDark bool, art *applemusic.Artwork) string {
	if !isDark(appearance, prefersDark) {
		return whiteBackground
	}
	if immersive && art != nil && art.BgColor != "" {
		return strings.ToLower(strings.TrimPrefix(art.BgColor, "#"))
	}
	return blackBackground
}

func isDark(appearance string, prefersDark bool) bool {
	switch appearance {
	case "dark":
		return true
	case "light":
		return false
	default:
		return prefersDark
	}
}

// SwatchValue reads a named swatch off the artwork descriptor.
func SwatchValue(art *applemusic.Artwork, name string) (string, error) {
	if art == nil {
		return "", ErrMissingArtwork
	}

	var v string
	switch name {
	case "textColor1":
		v = art.TextColor1
	case "textColor2":
		v = art.TextColor2
	case "textColor3":
		v = art.TextColor3
	case "textColor4":
		v = art.TextColor4
	case "bgColor":
		v = art.BgColor
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSwatch, name)
	}

	if v == "" {
		return "", fmt.Errorf("%w: artwork has no %s", ErrUnknownSwatch, name)
	}
	return strings.TrimPrefix(v, "#"), nil
}

type Selector struct {
	appearance host.Appearance
	extractor  artwork.Extractor
	logger     *zap.Logger
}

func NewSelector(appearance host.Appearance, extractor artwork.Extractor, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if extractor == nil {
		extractor = artwork.NewRemote(nil)
	}
	return &Selector{appearance: appearance, extractor: extractor, logger: logger}
}

// selection carries per-run state; the palette is extracted at most once.
type selection struct {
	item       *album.MediaItem
	art        *applemusic.Artwork
	cfg        settings.Config
	dark       bool
	background string

	extracted bool
	swatches  artwork.Swatches
}

func (s *Selector) Select(ctx context.Context, item *album.MediaItem, cfg settings.Config) (Colors, error) {
	if item == nil || item.Artwork() == nil {
		return Colors{}, ErrMissingArtwork
	}

	appearance, immersive, prefersDark := "auto", false, false
	if s.appearance != nil {
		appearance = s.appearance.Appearance()
		immersive = s.appearance.ImmersiveBackground()
		if appearance != "dark" && appearance != "light" {
			prefersDark = s.appearance.PrefersDark()
		}
	}

	sel := &selection{
		item:       item,
		art:        item.Artwork(),
		cfg:        cfg,
		dark:       isDark(appearance, prefersDark),
		background: Background(appearance, immersive, prefersDark, item.Artwork()),
	}

	var out Colors
	var err error

	out.KeyColor, err = s.resolve(ctx, sel, cfg.KeyColor)
	if err != nil {
		return Colors{}, fmt.Errorf("keyColor: %w", err)
	}
	out.MusicKeyColor, err = s.resolve(ctx, sel, cfg.MusicKeyColor)
	if err != nil {
		return Colors{}, fmt.Errorf("musicKeyColor: %w", err)
	}

	return out, nil
}

func (s *Selector) resolve(ctx context.Context, sel *selection, swatch string) (*Applied, error) {
	if swatch == settings.SwatchHost {
		return nil, nil
	}

	if sel.cfg.Algorithm == settings.AlgorithmVibrant {
		if name, picked, ok := s.vibrant(ctx, sel); ok {
			return adjust(name, picked, sel.background)
		}

		// host value as is
		raw, err := SwatchValue(sel.art, swatch)
		if err != nil {
			return nil, err
		}
		color, err := colors.Normalize(raw)
		if err != nil {
			return nil, err
		}
		return &Applied{Source: swatch, Raw: raw, Color: color}, nil
	}

	raw, err := SwatchValue(sel.art, swatch)
	if err != nil {
		return nil, err
	}
	return adjust(swatch, raw, sel.background)
}

func adjust(source, raw, background string) (*Applied, error) {
	adj, err := colors.AdjustForContrast(raw, background, colors.DefaultMinContrast, colors.DefaultMaxAttempts)
	if err != nil {
		return nil, err
	}
	return &Applied{
		Source:     source,
		Raw:        raw,
		Color:      adj.Color,
		Background: background,
		Adjusted:   adj.Attempts > 0,
		Attempts:   adj.Attempts,
	}, nil
}

// vibrant returns the extracted swatch for the current appearance.
func (s *Selector) vibrant(ctx context.Context, sel *selection) (string, string, bool) {
	if !sel.extracted {
		sel.extracted = true

		u, err := artwork.ImageURL(sel.art, artwork.DefaultDivisor, artwork.DefaultFormat)
		if err != nil {
			s.logger.Warn("[accent][vibrant] no artwork url", zap.String("album", sel.item.ID), zap.Error(err))
			return "", "", false
		}

		sw, err := s.extractor.Extract(ctx, u)
		if err != nil {
			s.logger.Warn("[accent][vibrant] extraction failed, using host swatch",
				zap.String("album", sel.item.ID),
				zap.String("url", u),
				zap.Error(err),
			)
			return "", "", false
		}
		sel.swatches = sw
	}

	dark := sel.dark
	if sel.cfg.Scheme == settings.SchemeFlip {
		dark = !dark
	}

	name := artwork.DarkVibrant
	if dark {
		name = artwork.LightVibrant
	}

	for _, candidate := range []string{name, artwork.Vibrant} {
		if hex, ok := sel.swatches.Get(candidate); ok {
			return candidate, hex, true
		}
	}
	return "", "", false
}
