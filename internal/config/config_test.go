package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MPRIS_SERVICE", "")
	t.Setenv("APPLE_MUSIC_API_URL", "")
	t.Setenv("ACCENTS_SETTINGS", "")
	t.Setenv("ACCENTS_STYLESHEET", "")
	t.Setenv("ACCENTS_APPEARANCE", "")
	t.Setenv("ACCENTS_IMMERSIVE", "")
	t.Setenv("ACCENTS_CACHE_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	cfg := Load()

	assert.Equal(t, DefaultMprisService, cfg.MprisService)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "auto", cfg.Appearance)
	assert.False(t, cfg.Immersive)
	assert.Equal(t, filepath.Join("/tmp/xdg", "adaptiveaccents", "settings.bin"), cfg.SettingsPath)
	assert.Equal(t, filepath.Join("/tmp/xdg", "adaptiveaccents", "accents.css"), cfg.StylesheetPath)
	assert.Equal(t, filepath.Join("/tmp/xdg-cache", "adaptiveaccents", "palettes"), cfg.CacheDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MPRIS_SERVICE", "org.mpris.MediaPlayer2.other")
	t.Setenv("ACCENTS_APPEARANCE", "DARK")
	t.Setenv("ACCENTS_IMMERSIVE", "yes")
	t.Setenv("ACCENTS_SETTINGS", "/tmp/s.bin")

	cfg := Load()

	assert.Equal(t, "org.mpris.MediaPlayer2.other", cfg.MprisService)
	assert.Equal(t, "dark", cfg.Appearance)
	assert.True(t, cfg.Immersive)
	assert.Equal(t, "/tmp/s.bin", cfg.SettingsPath)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", "on"} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"", "0", "no", "maybe"} {
		assert.False(t, parseBool(s), s)
	}
}
