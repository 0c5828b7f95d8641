package player

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/adaptiveaccents/internal/track"
)

func TestItemFromMetadataAppleMusicURL(t *testing.T) {
	md := map[string]dbus.Variant{
		"xesam:title":   dbus.MakeVariant("Song"),
		"xesam:artist":  dbus.MakeVariant([]string{"Artist", "Feature"}),
		"xesam:album":   dbus.MakeVariant("Album"),
		"xesam:url":     dbus.MakeVariant("https://music.apple.com/gb/album/some-album/1440818839?i=1440818840"),
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/org/node/mediaplayer/cider/track/1440818840")),
	}

	item := ItemFromMetadata(md)
	require.NotNil(t, item)

	assert.Equal(t, "1440818840", item.ID)
	assert.Equal(t, "Artist - Song", item.Describe())
	assert.Equal(t, "Album", item.Attributes.AlbumName)
	require.NotNil(t, item.Attributes.PlayParams)
	assert.Equal(t, "1440818840", item.Attributes.PlayParams.CatalogID)
	assert.Equal(t, "1440818840", item.Attributes.PlayParams.ID)
	require.NotNil(t, item.Relationships)
	assert.Equal(t, "1440818839", item.Relationships.Albums.Data[0].ID)

	res := track.Resolve(item)
	assert.Equal(t, track.KindCatalog, res.Kind)

	assert.Equal(t, "gb", StorefrontFromMetadata(md))
}

func TestItemFromMetadataAlbumLinkOnly(t *testing.T) {
	md := map[string]dbus.Variant{
		"xesam:title": dbus.MakeVariant("Song"),
		"xesam:url":   dbus.MakeVariant("https://music.apple.com/us/album/1440818839"),
	}

	item := ItemFromMetadata(md)
	require.NotNil(t, item)
	assert.Nil(t, item.Attributes.PlayParams)

	res := track.Resolve(item)
	assert.Equal(t, track.KindRelationship, res.Kind)
	assert.Equal(t, "1440818839", res.ID)
	assert.True(t, res.RelationshipMode)
}

func TestItemFromMetadataLibraryTrackID(t *testing.T) {
	md := map[string]dbus.Variant{
		"xesam:title":   dbus.MakeVariant("Song"),
		"xesam:url":     dbus.MakeVariant("file:///music/song.m4a"),
		"mpris:trackid": dbus.MakeVariant("/org/node/mediaplayer/cider/track/i.abc123"),
	}

	item := ItemFromMetadata(md)
	require.NotNil(t, item)
	assert.True(t, item.Attributes.PlayParams.IsLibrary)

	res := track.Resolve(item)
	assert.Equal(t, track.KindPlayParams, res.Kind)
	assert.Equal(t, "i.abc123", res.ID)
}

func TestItemFromMetadataWithoutIdentifiers(t *testing.T) {
	item := ItemFromMetadata(map[string]dbus.Variant{
		"xesam:title":   dbus.MakeVariant("Untitled"),
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath(noTrack)),
	})
	require.NotNil(t, item)
	assert.False(t, track.Resolve(item).OK())

	assert.Nil(t, ItemFromMetadata(map[string]dbus.Variant{}))
	assert.Nil(t, ItemFromMetadata(nil))
}

func TestParseMusicURL(t *testing.T) {
	tests := []struct {
		raw  string
		want musicLink
	}{
		{"https://music.apple.com/us/album/x/1?i=2", musicLink{storefront: "us", albumID: "1", songID: "2"}},
		{"https://music.apple.com/jp/album/1", musicLink{storefront: "jp", albumID: "1"}},
		{"https://example.com/us/album/x/1?i=2", musicLink{}},
		{"https://music.apple.com/us/playlist/x/pl.1", musicLink{}},
		{"::", musicLink{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMusicURL(tt.raw))
		})
	}
}
