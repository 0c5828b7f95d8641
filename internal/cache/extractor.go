package cache

import (
	"context"

	"go.uber.org/zap"

	"karolbroda.com/adaptiveaccents/internal/artwork"
)

// Extractor serves palettes from the cache and only falls through to the
// wrapped extractor on a miss.
type Extractor struct {
	inner  artwork.Extractor
	cache  *DiskCache
	logger *zap.Logger
}

func NewExtractor(inner artwork.Extractor, cache *DiskCache, logger *zap.Logger) *Extractor {
	if cache == nil {
		cache = NewMemory()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{inner: inner, cache: cache, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, artworkURL string) (artwork.Swatches, error) {
	entry, err := e.cache.Get(artworkURL)
	if err == nil {
		e.logger.Debug("[cache][palette] hit", zap.String("url", artworkURL))
		return artwork.Swatches(entry.Swatches), nil
	}

	sw, err := e.inner.Extract(ctx, artworkURL)
	if err != nil {
		return nil, err
	}

	if len(sw) > 0 {
		if err := e.cache.Set(artworkURL, sw); err != nil {
			e.logger.Warn("[cache][palette] failed to store palette", zap.String("url", artworkURL), zap.Error(err))
		}
	}

	return sw, nil
}
