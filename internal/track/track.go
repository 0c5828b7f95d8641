package track

import "errors"

var (
	ErrNoItem           = errors.New("playback event has no item")
	ErrNoIdentifiableID = errors.New("no identifiable album or song id")
)

// PlaybackEvent is the payload of a "now playing item changed" notification.
type PlaybackEvent struct {
	Item *Item `json:"item"`
}

type Item struct {
	ID            string         `json:"id,omitempty"`
	Type          string         `json:"type,omitempty"`
	Attributes    *Attributes    `json:"attributes,omitempty"`
	Relationships *Relationships `json:"relationships,omitempty"`
}

type Attributes struct {
	Name       string      `json:"name,omitempty"`
	ArtistName string      `json:"artistName,omitempty"`
	AlbumName  string      `json:"albumName,omitempty"`
	PlayParams *PlayParams `json:"playParams,omitempty"`
}

type PlayParams struct {
	ID        string `json:"id,omitempty"`
	Kind      string `json:"kind,omitempty"`
	CatalogID string `json:"catalogId,omitempty"`
	IsLibrary bool   `json:"isLibrary,omitempty"`
}

type Relationships struct {
	Albums *ResourceList `json:"albums,omitempty"`
}

type ResourceList struct {
	Data []Resource `json:"data"`
}

type Resource struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

func (i *Item) catalogID() string {
	if i.Attributes == nil || i.Attributes.PlayParams == nil {
		return ""
	}
	return i.Attributes.PlayParams.CatalogID
}

func (i *Item) playParamsID() string {
	if i.Attributes == nil || i.Attributes.PlayParams == nil {
		return ""
	}
	return i.Attributes.PlayParams.ID
}

func (i *Item) relatedAlbumID() string {
	if i.Relationships == nil || i.Relationships.Albums == nil || len(i.Relationships.Albums.Data) == 0 {
		return ""
	}
	return i.Relationships.Albums.Data[0].ID
}

// Describe is a short human readable label used in logs.
func (i *Item) Describe() string {
	if i == nil {
		return "<nil>"
	}
	if i.Attributes == nil || i.Attributes.Name == "" {
		return i.ID
	}
	if i.Attributes.ArtistName == "" {
		return i.Attributes.Name
	}
	return i.Attributes.ArtistName + " - " + i.Attributes.Name
}

// IsSameTrack reports whether two items point at the same playable id.
func (i *Item) IsSameTrack(other *Item) bool {
	if i == nil || other == nil {
		return i == other
	}
	a, b := Resolve(i), Resolve(other)
	if a.OK() && b.OK() {
		return a == b
	}
	return i.Describe() == other.Describe()
}
