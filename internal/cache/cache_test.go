package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/adaptiveaccents/internal/artwork"
)

const testURL = "https://example.com/image/thumb/600x600bb.webp"

func TestSetGetRoundTripsThroughDisk(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Set(testURL, map[string]string{artwork.Vibrant: "#e05020"}))

	// a fresh cache has nothing in memory and must read the file
	fresh, err := Open(dir)
	require.NoError(t, err)

	entry, err := fresh.Get(testURL)
	require.NoError(t, err)
	assert.Equal(t, testURL, entry.URL)
	assert.Equal(t, "#e05020", entry.Swatches[artwork.Vibrant])

	count, size, err := fresh.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Positive(t, size)
}

func TestGetMiss(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = c.Get(testURL)
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = c.Get("")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestExpiredEntries(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)

	start := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return start }
	require.NoError(t, c.Set(testURL, map[string]string{artwork.Muted: "#808080"}))

	c.now = func() time.Time { return start.Add(defaultTTL + time.Hour) }
	c.memCache = make(map[string]*Entry)

	_, err = c.Get(testURL)
	assert.ErrorIs(t, err, ErrCacheExpired)

	_, err = os.Stat(filepath.Join(dir, generateKey(testURL)+".bin"))
	assert.True(t, os.IsNotExist(err))
}

func TestPruneRemovesCorruptAndExpired(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, c.Set(testURL, map[string]string{artwork.Vibrant: "#ff0000"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.bin"), []byte("nope"), 0644))

	pruned, err := c.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	entries, err := c.ListAll()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, c.Clear())
	count, _, err := c.Stats()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemory()
	assert.Empty(t, c.Path())

	require.NoError(t, c.Set(testURL, map[string]string{artwork.Vibrant: "#00ff00"}))
	entry, err := c.Get(testURL)
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", entry.Swatches[artwork.Vibrant])

	require.NoError(t, c.Delete(testURL))
	_, err = c.Get(testURL)
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.Error(t, c.Set(testURL, nil))
}

type countingExtractor struct {
	calls int
	out   artwork.Swatches
	err   error
}

func (e *countingExtractor) Extract(ctx context.Context, artworkURL string) (artwork.Swatches, error) {
	e.calls++
	return e.out, e.err
}

func TestExtractorCachesPalette(t *testing.T) {
	inner := &countingExtractor{out: artwork.Swatches{artwork.Vibrant: "#c03030"}}
	ext := NewExtractor(inner, NewMemory(), nil)

	for i := 0; i < 3; i++ {
		sw, err := ext.Extract(context.Background(), testURL)
		require.NoError(t, err)
		v, ok := sw.Get(artwork.Vibrant)
		require.True(t, ok)
		assert.Equal(t, "c03030", v)
	}

	assert.Equal(t, 1, inner.calls)
}

func TestExtractorDoesNotCacheFailures(t *testing.T) {
	inner := &countingExtractor{err: errors.New("boom")}
	ext := NewExtractor(inner, NewMemory(), nil)

	_, err := ext.Extract(context.Background(), testURL)
	assert.Error(t, err)
	_, err = ext.Extract(context.Background(), testURL)
	assert.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}
