package host

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Scope is the element a custom property is set on.
type Scope string

const (
	ScopeBody Scope = "body"
	ScopeRoot Scope = ":root"
)

const (
	KeyColorProperty      = "--keyColor"
	MusicKeyColorProperty = "--musicKeyColor"
)

// Appearance reports the host's visual settings.
type Appearance interface {
	// Appearance is "dark", "light" or "auto".
	Appearance() string
	ImmersiveBackground() bool
	// PrefersDark is the system color scheme, consulted for "auto".
	PrefersDark() bool
}

// Display receives resolved accent colors.
type Display interface {
	SetProperty(scope Scope, name string, value string) error
}

// StaticAppearance is an Appearance fixed at startup. The system preference
// is probed once, lazily, from the terminal background.
type StaticAppearance struct {
	Mode      string
	Immersive bool

	// DetectDark overrides the terminal probe.
	DetectDark func() bool

	once sync.Once
	dark bool
}

func NewStaticAppearance(mode string, immersive bool) *StaticAppearance {
	if mode == "" {
		mode = "auto"
	}
	return &StaticAppearance{Mode: mode, Immersive: immersive}
}

func (a *StaticAppearance) Appearance() string {
	return a.Mode
}

func (a *StaticAppearance) ImmersiveBackground() bool {
	return a.Immersive
}

func (a *StaticAppearance) PrefersDark() bool {
	a.once.Do(func() {
		detect := a.DetectDark
		if detect == nil {
			detect = lipgloss.HasDarkBackground
		}
		a.dark = detect()
	})
	return a.dark
}
