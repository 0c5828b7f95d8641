package ui

import (
	"context"
	"image"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/adaptiveaccents/internal/album"
	"karolbroda.com/adaptiveaccents/internal/artwork"
	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/pipeline"
	"karolbroda.com/adaptiveaccents/internal/terminal"
)

const tickInterval = 250 * time.Millisecond

type TickMsg time.Time

// PropertyMsg mirrors one display write.
type PropertyMsg host.Write

// ResultMsg carries a finished pipeline run.
type ResultMsg struct {
	Result pipeline.Result
}

type ArtworkFetchedMsg struct {
	AlbumID string
	Image   image.Image
	Err     error
}

// StatusFunc reports the orchestrator state for the status line.
type StatusFunc func() pipeline.State

type Model struct {
	loader   *artwork.Loader
	status   StatusFunc
	termCaps *terminal.Capabilities
	spinner  spinner.Model

	keyColor      string
	musicKeyColor string
	result        *pipeline.Result
	image         image.Image
	err           error

	quitting  bool
	width     int
	height    int
	tickCount int
}

type ModelConfig struct {
	Loader   *artwork.Loader
	Status   StatusFunc
	TermCaps *terminal.Capabilities
}

func NewModel(cfg ModelConfig) Model {
	loader := cfg.Loader
	if loader == nil {
		loader = artwork.NewLoader(nil)
	}
	caps := cfg.TermCaps
	if caps == nil {
		caps = terminal.DetectCapabilities()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))

	return Model{
		loader:   loader,
		status:   cfg.Status,
		termCaps: caps,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func fetchArtworkCmd(loader *artwork.Loader, item *album.MediaItem) tea.Cmd {
	if item == nil || item.Artwork() == nil {
		return nil
	}
	return func() tea.Msg {
		u, err := artwork.ImageURL(item.Artwork(), artwork.DefaultDivisor, "jpg")
		if err != nil {
			return ArtworkFetchedMsg{AlbumID: item.ID, Err: err}
		}
		img, err := loader.Fetch(context.Background(), u)
		return ArtworkFetchedMsg{AlbumID: item.ID, Image: img, Err: err}
	}
}

func (m Model) KeyColor() string      { return m.keyColor }
func (m Model) MusicKeyColor() string { return m.musicKeyColor }
func (m Model) Result() *pipeline.Result {
	return m.result
}
func (m Model) IsQuitting() bool { return m.quitting }
