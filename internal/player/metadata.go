package player

import (
	"net/url"
	"path"
	"strings"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/adaptiveaccents/internal/track"
)

const noTrack = "/org/mpris/MediaPlayer2/TrackList/NoTrack"

// ItemFromMetadata maps MPRIS metadata onto a playback item. An Apple Music
// xesam:url (https://music.apple.com/<sf>/album/<name>/<albumId>?i=<songId>)
// supplies the catalog song id and the album relationship; the last element
// of mpris:trackid becomes the play params id. Returns nil when nothing
// identifies a track.
func ItemFromMetadata(metadata map[string]dbus.Variant) *track.Item {
	title := extractString(metadata, "xesam:title")
	artist := extractArtist(metadata, "xesam:artist")
	albumName := extractString(metadata, "xesam:album")
	trackID := extractTrackID(metadata, "mpris:trackid")
	link := parseMusicURL(extractString(metadata, "xesam:url"))

	if title == "" && trackID == "" && link.songID == "" && link.albumID == "" {
		return nil
	}

	item := &track.Item{
		Type: "songs",
		Attributes: &track.Attributes{
			Name:       title,
			ArtistName: artist,
			AlbumName:  albumName,
		},
	}

	if link.songID != "" || trackID != "" {
		item.Attributes.PlayParams = &track.PlayParams{
			ID:        trackID,
			Kind:      "song",
			CatalogID: link.songID,
			IsLibrary: strings.HasPrefix(trackID, "i."),
		}
	}

	if link.albumID != "" {
		item.Relationships = &track.Relationships{
			Albums: &track.ResourceList{Data: []track.Resource{{ID: link.albumID, Type: "albums"}}},
		}
	}

	item.ID = link.songID
	if item.ID == "" {
		item.ID = trackID
	}

	return item
}

// StorefrontFromMetadata returns the storefront segment of the xesam:url, if
// any.
func StorefrontFromMetadata(metadata map[string]dbus.Variant) string {
	return parseMusicURL(extractString(metadata, "xesam:url")).storefront
}

type musicLink struct {
	storefront string
	albumID    string
	songID     string
}

func parseMusicURL(raw string) musicLink {
	if raw == "" {
		return musicLink{}
	}

	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(u.Host, "music.apple.com") {
		return musicLink{}
	}

	var link musicLink
	link.songID = u.Query().Get("i")

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg != "album" {
			continue
		}
		if i > 0 {
			link.storefront = segments[i-1]
		}
		// the album id is the last segment, after the optional slug
		if i+1 < len(segments) {
			link.albumID = segments[len(segments)-1]
		}
		break
	}

	return link
}

func extractTrackID(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	var raw string
	switch typed := variant.Value().(type) {
	case dbus.ObjectPath:
		raw = string(typed)
	case string:
		raw = typed
	default:
		return ""
	}

	if raw == "" || raw == noTrack {
		return ""
	}
	return path.Base(raw)
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	if metadata == nil {
		return ""
	}

	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	raw := variant.Value()
	if raw == nil {
		return ""
	}

	text, ok := raw.(string)
	if ok {
		return text
	}

	return ""
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	if metadata == nil {
		return ""
	}

	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case string:
		return typed
	default:
		return ""
	}
}
