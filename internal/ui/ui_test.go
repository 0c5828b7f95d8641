package ui

import (
	"errors"
	"image"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/adaptiveaccents/internal/accent"
	"karolbroda.com/adaptiveaccents/internal/album"
	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/pipeline"
	"karolbroda.com/adaptiveaccents/internal/terminal"
	"karolbroda.com/adaptiveaccents/internal/track"
)

func newTestModel() Model {
	return NewModel(ModelConfig{
		Status:   func() pipeline.State { return pipeline.Processing },
		TermCaps: &terminal.Capabilities{SupportsRGB: false},
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func result(albumID string) pipeline.Result {
	return pipeline.Result{
		Seq:        1,
		Item:       &track.Item{Attributes: &track.Attributes{Name: "Song", ArtistName: "Artist"}},
		Resolution: track.Resolution{Kind: track.KindCatalog, ID: "123"},
		Album:      &album.MediaItem{ID: albumID, Attributes: &album.Attributes{Name: "Album"}},
		Colors: accent.Colors{
			KeyColor: &accent.Applied{Source: "textColor1", Raw: "ffffff", Color: "ffffff"},
		},
	}
}

func TestPropertyMessagesTrackWrites(t *testing.T) {
	m := newTestModel()
	m, _ = update(t, m, PropertyMsg{Scope: host.ScopeBody, Name: host.KeyColorProperty, Value: "#ffffff"})
	m, _ = update(t, m, PropertyMsg{Scope: host.ScopeRoot, Name: host.MusicKeyColorProperty, Value: "#777777"})

	assert.Equal(t, "#ffffff", m.KeyColor())
	assert.Equal(t, "#777777", m.MusicKeyColor())
}

func TestResultMessageShowsTrack(t *testing.T) {
	m := newTestModel()
	assert.Contains(t, m.View(), "awaiting music")

	m, _ = update(t, m, ResultMsg{Result: result("555")})
	require.NotNil(t, m.Result())

	view := m.View()
	assert.Contains(t, view, "Artist - Song")
	assert.Contains(t, view, "catalog:123")
	assert.Contains(t, view, "musicKeyColor: left to cider")
	assert.Contains(t, view, "processing")
}

func TestStaleArtworkIsIgnored(t *testing.T) {
	m := newTestModel()
	m, _ = update(t, m, ResultMsg{Result: result("2")})

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	m, _ = update(t, m, ArtworkFetchedMsg{AlbumID: "1", Image: img})
	assert.Nil(t, m.image)

	m, _ = update(t, m, ArtworkFetchedMsg{AlbumID: "2", Err: errors.New("404")})
	assert.Contains(t, m.View(), "artwork: 404")
}

func TestQuit(t *testing.T) {
	m := newTestModel()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, m.IsQuitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestBanner(t *testing.T) {
	assert.NotEmpty(t, Banner("accents"))
}

func TestStatusLine(t *testing.T) {
	m := newTestModel()
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.renderStatus(), "processing")

	m.status = func() pipeline.State { return pipeline.Idle }
	assert.Contains(t, m.renderStatus(), "idle")

	m.status = nil
	assert.Contains(t, m.renderStatus(), "idle")
}
