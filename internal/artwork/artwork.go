package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	applemusic "github.com/minchao/go-apple-music"
	_ "golang.org/x/image/webp"
)

const (
	fetchTimeout = 5 * time.Second

	// DefaultDivisor shrinks the artwork's native size before download; the
	// palette does not need full resolution.
	DefaultDivisor = 4
	DefaultFormat  = "webp"

	fallbackSize = 600
)

var ErrPaletteExtraction = errors.New("palette extraction failed")

// ImageURL fills the {w}, {h} and {f} tokens of an artwork url template with
// the native size divided by divisor and the requested format.
func ImageURL(art *applemusic.Artwork, divisor int, format string) (string, error) {
	if art == nil || art.URL == "" {
		return "", errors.New("artwork has no url template")
	}
	if divisor < 1 {
		divisor = 1
	}

	width := art.Width / divisor
	height := art.Height / divisor
	if width <= 0 {
		width = fallbackSize
	}
	if height <= 0 {
		height = fallbackSize
	}

	u := strings.ReplaceAll(art.URL, "{w}", strconv.Itoa(width))
	u = strings.ReplaceAll(u, "{h}", strconv.Itoa(height))
	u = strings.ReplaceAll(u, "{f}", format)

	return u, nil
}

type Loader struct {
	httpClient *http.Client
}

func NewLoader(httpClient *http.Client) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	return &Loader{httpClient: httpClient}
}

// Fetch downloads and decodes an artwork image. file:// urls are read from
// disk.
func (l *Loader) Fetch(ctx context.Context, artworkURL string) (image.Image, error) {
	if artworkURL == "" {
		return nil, errors.New("empty artwork url")
	}

	if strings.HasPrefix(artworkURL, "file://") {
		path := strings.TrimPrefix(artworkURL, "file://")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open artwork file: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode artwork image: %w", err)
		}
		return img, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}

	return img, nil
}

// Extractor turns an artwork url into named swatches.
type Extractor interface {
	Extract(ctx context.Context, artworkURL string) (Swatches, error)
}

// Remote fetches the image and runs ExtractSwatches on it.
type Remote struct {
	loader *Loader
}

func NewRemote(loader *Loader) *Remote {
	if loader == nil {
		loader = NewLoader(nil)
	}
	return &Remote{loader: loader}
}

func (r *Remote) Extract(ctx context.Context, artworkURL string) (Swatches, error) {
	img, err := r.loader.Fetch(ctx, artworkURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaletteExtraction, err)
	}
	return ExtractSwatches(img)
}
