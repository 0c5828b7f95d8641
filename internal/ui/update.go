package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/adaptiveaccents/internal/host"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case PropertyMsg:
		switch msg.Name {
		case host.KeyColorProperty:
			m.keyColor = msg.Value
		case host.MusicKeyColorProperty:
			m.musicKeyColor = msg.Value
		}
		return m, nil

	case ResultMsg:
		return m.handleResult(msg)

	case ArtworkFetchedMsg:
		// a newer album may have replaced this one meanwhile
		if m.result == nil || m.result.Album == nil || m.result.Album.ID != msg.AlbumID {
			return m, nil
		}
		m.image = msg.Image
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		m.tickCount++
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleResult(msg ResultMsg) (tea.Model, tea.Cmd) {
	res := msg.Result
	sameAlbum := m.result != nil && m.result.Album != nil && res.Album != nil && m.result.Album.ID == res.Album.ID

	m.result = &res
	m.err = nil
	if sameAlbum {
		return m, nil
	}

	m.image = nil
	return m, fetchArtworkCmd(m.loader, res.Album)
}
