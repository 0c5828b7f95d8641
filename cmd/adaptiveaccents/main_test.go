package main

import (
	"path/filepath"
	"testing"

	applemusic "github.com/minchao/go-apple-music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/adaptiveaccents/internal/settings"
	"karolbroda.com/adaptiveaccents/internal/track"
)

func TestEventFromIDs(t *testing.T) {
	tests := []struct {
		name                       string
		catalog, album, playParams string
		wantKind                   track.Kind
		wantID                     string
		wantRelationship           bool
	}{
		{"catalog wins", "1", "2", "3", track.KindCatalog, "1", false},
		{"album relationship", "", "2", "3", track.KindRelationship, "2", true},
		{"play params", "", "", "i.3", track.KindPlayParams, "i.3", false},
		{"nothing", "", "", "", track.KindNone, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := track.Resolve(eventFromIDs(tt.catalog, tt.album, tt.playParams).Item)
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.wantID, res.ID)
			assert.Equal(t, tt.wantRelationship, res.RelationshipMode)
		})
	}
}

func TestApplySetting(t *testing.T) {
	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.bin"))
	require.NoError(t, err)

	require.NoError(t, applySetting(store, "frozen", "true"))
	require.NoError(t, applySetting(store, "algorithm", "vibrant"))
	require.NoError(t, applySetting(store, "keyColor", "cider"))
	require.NoError(t, applySetting(store, "MusicKeyColor", "bgColor"))
	require.NoError(t, applySetting(store, "scheme", "flip"))
	require.NoError(t, applySetting(store, "storefront", "gb"))

	c := store.Snapshot()
	assert.True(t, c.Frozen)
	assert.Equal(t, settings.AlgorithmVibrant, c.Algorithm)
	assert.Equal(t, settings.SwatchHost, c.KeyColor)
	assert.Equal(t, "bgColor", c.MusicKeyColor)
	assert.Equal(t, settings.SchemeFlip, c.Scheme)
	assert.Equal(t, "gb", store.Storefront())

	assert.ErrorIs(t, applySetting(store, "frozen", "sometimes"), settings.ErrInvalidValue)
	assert.ErrorIs(t, applySetting(store, "algorithm", "magic"), settings.ErrInvalidValue)
	assert.ErrorIs(t, applySetting(store, "keyColor", "textColor9"), settings.ErrInvalidValue)
	assert.Error(t, applySetting(store, "volume", "11"))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}

func TestSwatchTableMarksTargets(t *testing.T) {
	art := &applemusic.Artwork{TextColor1: "ffffff", TextColor4: "777777", BgColor: "101010"}
	pluginCfg := settings.Defaults()

	out := swatchTable(art, pluginCfg)

	assert.Contains(t, out, "textColor1")
	assert.Contains(t, out, "bgColor")
	assert.Contains(t, out, "keyColor")
	assert.Contains(t, out, "musicKeyColor")
	assert.Equal(t, "", usedBy(pluginCfg, "textColor2"))
}
