package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.False(t, d.Frozen)
	assert.Equal(t, AlgorithmSwatch, d.Algorithm)
	assert.Equal(t, "textColor1", d.KeyColor)
	assert.Equal(t, "textColor4", d.MusicKeyColor)
	assert.NoError(t, d.Validate())
}

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "settings.bin"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s.Snapshot())
	assert.Equal(t, "auto", s.Storefront())
}

func TestUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.bin")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Update(func(c *Config) {
		c.Frozen = true
		c.Algorithm = AlgorithmVibrant
		c.KeyColor = SwatchHost
	}))
	require.NoError(t, s.SetStorefront("gb"))

	reopened, err := Open(path)
	require.NoError(t, err)
	got := reopened.Snapshot()
	assert.True(t, got.Frozen)
	assert.Equal(t, AlgorithmVibrant, got.Algorithm)
	assert.Equal(t, SwatchHost, got.KeyColor)
	assert.Equal(t, "gb", reopened.Storefront())
}

func TestUpdateRejectsInvalid(t *testing.T) {
	s := NewMemory(Defaults())

	err := s.Update(func(c *Config) { c.KeyColor = "textColor9" })
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = s.Update(func(c *Config) { c.Algorithm = "magic" })
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.Equal(t, Defaults(), s.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewMemory(Defaults())
	snap := s.Snapshot()
	require.NoError(t, s.Update(func(c *Config) { c.Frozen = true }))
	assert.False(t, snap.Frozen)
	assert.True(t, s.Snapshot().Frozen)
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.bin")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s.Snapshot())
}

func TestSubscribeAndReset(t *testing.T) {
	s := NewMemory(Defaults())
	ch := s.Subscribe()

	require.NoError(t, s.Update(func(c *Config) { c.Scheme = SchemeFlip }))
	got := <-ch
	assert.Equal(t, SchemeFlip, got.Scheme)

	require.NoError(t, s.SetStorefront(""))
	assert.Equal(t, DefaultStorefront, s.Storefront())
	<-ch

	require.NoError(t, s.Reset())
	assert.Equal(t, Defaults(), <-ch)
}

func TestReloadPicksUpOtherWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.bin")
	daemon, err := Open(path)
	require.NoError(t, err)
	ch := daemon.Subscribe()

	cli, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, cli.Update(func(c *Config) { c.Algorithm = AlgorithmVibrant }))

	require.NoError(t, daemon.Reload())
	assert.Equal(t, AlgorithmVibrant, daemon.Snapshot().Algorithm)
	assert.Equal(t, AlgorithmVibrant, (<-ch).Algorithm)

	// unchanged file, no notification
	require.NoError(t, daemon.Reload())
	select {
	case <-ch:
		t.Fatal("unexpected notification")
	default:
	}

	assert.NoError(t, NewMemory(Defaults()).Reload())
}
