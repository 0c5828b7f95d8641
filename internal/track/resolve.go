package track

import "fmt"

// Kind tags which field of the item produced the fetch key.
type Kind int

const (
	KindNone Kind = iota
	KindCatalog
	KindRelationship
	KindPlayParams
)

func (k Kind) String() string {
	switch k {
	case KindCatalog:
		return "catalog"
	case KindRelationship:
		return "relationship"
	case KindPlayParams:
		return "playParams"
	default:
		return "none"
	}
}

// Resolution is the fetch key derived from a playback item. RelationshipMode
// means ID already names a catalog album.
type Resolution struct {
	Kind             Kind
	ID               string
	RelationshipMode bool
}

func (r Resolution) OK() bool {
	return r.Kind != KindNone && r.ID != ""
}

func (r Resolution) String() string {
	if !r.OK() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Resolve walks catalogId, the first related album, then playParams.id; the
// first non-empty one wins.
func Resolve(item *Item) Resolution {
	if item == nil {
		return Resolution{}
	}

	if id := item.catalogID(); id != "" {
		return Resolution{Kind: KindCatalog, ID: id}
	}
	if id := item.relatedAlbumID(); id != "" {
		return Resolution{Kind: KindRelationship, ID: id, RelationshipMode: true}
	}
	if id := item.playParamsID(); id != "" {
		return Resolution{Kind: KindPlayParams, ID: id}
	}

	return Resolution{}
}

// ResolveEvent is Resolve with the nil checks reported as errors.
func ResolveEvent(event PlaybackEvent) (Resolution, error) {
	if event.Item == nil {
		return Resolution{}, ErrNoItem
	}

	res := Resolve(event.Item)
	if !res.OK() {
		return res, ErrNoIdentifiableID
	}

	return res, nil
}
