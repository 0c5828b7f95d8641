package album

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applemusic "github.com/minchao/go-apple-music"
	"go.uber.org/zap"

	"karolbroda.com/adaptiveaccents/internal/appleapi"
	"karolbroda.com/adaptiveaccents/internal/track"
)

const albumFields = "artistName,artistUrl,artwork,contentRating,editorialArtwork,editorialNotes,name,playParams,releaseDate,trackCount,url"

var ErrAlbumNotFound = errors.New("album not found")

// MediaItem is the album record the selector works from.
type MediaItem struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Href       string      `json:"href,omitempty"`
	Attributes *Attributes `json:"attributes,omitempty"`
}

type Attributes struct {
	ArtistName     string              `json:"artistName,omitempty"`
	ArtistURL      string              `json:"artistUrl,omitempty"`
	Artwork        *applemusic.Artwork `json:"artwork,omitempty"`
	ContentRating  string              `json:"contentRating,omitempty"`
	EditorialNotes *EditorialNotes     `json:"editorialNotes,omitempty"`
	Name           string              `json:"name,omitempty"`
	ReleaseDate    string              `json:"releaseDate,omitempty"`
	TrackCount     int                 `json:"trackCount,omitempty"`
	URL            string              `json:"url,omitempty"`
}

type EditorialNotes struct {
	Short    string `json:"short,omitempty"`
	Standard string `json:"standard,omitempty"`
}

// Artwork returns the descriptor or nil when the record carries none.
func (m *MediaItem) Artwork() *applemusic.Artwork {
	if m == nil || m.Attributes == nil {
		return nil
	}
	return m.Attributes.Artwork
}

// IDKind is how a non-relationship id is looked up.
type IDKind int

const (
	IDSong IDKind = iota
	IDLibrary
	IDAlbum
)

func (k IDKind) String() string {
	switch k {
	case IDLibrary:
		return "library"
	case IDAlbum:
		return "album"
	default:
		return "song"
	}
}

// Classify treats "i." prefixed ids as library items and ids containing "l."
// as albums; everything else is a catalog song.
func Classify(id string) IDKind {
	switch {
	case strings.HasPrefix(id, "i."):
		return IDLibrary
	case strings.Contains(id, "l."):
		return IDAlbum
	default:
		return IDSong
	}
}

type songRecord struct {
	Relationships *struct {
		Albums *struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"albums"`
	} `json:"relationships"`
}

func (s songRecord) albumID() string {
	if s.Relationships == nil || s.Relationships.Albums == nil || len(s.Relationships.Albums.Data) == 0 {
		return ""
	}
	return s.Relationships.Albums.Data[0].ID
}

type Fetcher struct {
	api        appleapi.Requester
	storefront string
	logger     *zap.Logger
}

// NewFetcher captures storefront once; an empty value means "auto".
func NewFetcher(api appleapi.Requester, storefront string, logger *zap.Logger) *Fetcher {
	if storefront == "" {
		storefront = "auto"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{api: api, storefront: storefront, logger: logger}
}

func (f *Fetcher) Storefront() string {
	return f.storefront
}

func (f *Fetcher) catalogAlbumPath(id string) string {
	return fmt.Sprintf("/v1/catalog/%s/albums/%s", f.storefront, id)
}

func libraryAlbumPath(id string) string {
	return "/v1/me/library/albums/" + id
}

// Fetch resolves the album record for a playback resolution, doing the
// song->album lookup first when the id names a catalog song.
func (f *Fetcher) Fetch(ctx context.Context, res track.Resolution) (*MediaItem, error) {
	item, err := f.fetch(ctx, res)
	if err != nil {
		f.logger.Error("[album][Fetch] error fetching album media item",
			zap.String("resolution", res.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return item, nil
}

func (f *Fetcher) fetch(ctx context.Context, res track.Resolution) (*MediaItem, error) {
	if !res.OK() {
		return nil, track.ErrNoIdentifiableID
	}

	albumID := res.ID
	library := false
	var endpoint string

	if res.RelationshipMode {
		endpoint = f.catalogAlbumPath(albumID)
	} else {
		kind := Classify(res.ID)
		library = kind == IDLibrary

		if kind == IDSong {
			resolved, err := f.songAlbumID(ctx, res.ID)
			if err != nil {
				return nil, err
			}
			albumID = resolved
		}

		if library {
			endpoint = libraryAlbumPath(albumID)
		} else {
			endpoint = f.catalogAlbumPath(albumID)
		}
	}

	resp, err := f.api.V3(ctx, endpoint, appleapi.Query{
		"include": "tracks",
		"fields":  albumFields,
	})
	if err != nil {
		if appleapi.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrAlbumNotFound, albumID)
		}
		return nil, err
	}
	if resp == nil || len(resp.Data.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlbumNotFound, albumID)
	}

	var item MediaItem
	if err := appleapi.Decode(resp.Data.Data[0], &item); err != nil {
		return nil, err
	}

	if item.Href == "" {
		if Classify(albumID) == IDLibrary {
			item.Href = libraryAlbumPath(albumID)
		} else {
			item.Href = f.catalogAlbumPath(albumID)
		}
	}

	return &item, nil
}

func (f *Fetcher) songAlbumID(ctx context.Context, songID string) (string, error) {
	endpoint := fmt.Sprintf("/v1/catalog/%s/songs/%s", f.storefront, songID)

	resp, err := f.api.V3(ctx, endpoint, appleapi.Query{"fields": "albums"})
	if err != nil {
		if appleapi.IsNotFound(err) {
			return "", fmt.Errorf("%w for song %s", ErrAlbumNotFound, songID)
		}
		return "", err
	}
	if resp == nil || len(resp.Data.Data) == 0 {
		return "", fmt.Errorf("%w for song %s", ErrAlbumNotFound, songID)
	}

	var song songRecord
	if err := appleapi.Decode(resp.Data.Data[0], &song); err != nil {
		return "", err
	}

	id := song.albumID()
	if id == "" {
		return "", fmt.Errorf("%w for song %s", ErrAlbumNotFound, songID)
	}
	return id, nil
}
