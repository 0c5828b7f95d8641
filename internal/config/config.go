package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultMprisService = "org.mpris.MediaPlayer2.cider"
	DefaultAPIBaseURL   = "https://api.music.apple.com"
	DefaultAppearance   = "auto"
	HTTPTimeoutSeconds  = 10

	appDirName = "adaptiveaccents"
)

type Config struct {
	MprisService   string
	APIBaseURL     string
	DeveloperToken string
	UserToken      string
	SettingsPath   string
	StylesheetPath string
	CacheDir       string
	Appearance     string
	Immersive      bool
	LogLevel       string
	LogFile        string
	Development    bool
}

// Load reads the process configuration from the environment. A .env file in
// the working directory is applied first without overriding real variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		MprisService:   getEnvOrDefault("MPRIS_SERVICE", DefaultMprisService),
		APIBaseURL:     getEnvOrDefault("APPLE_MUSIC_API_URL", DefaultAPIBaseURL),
		DeveloperToken: os.Getenv("APPLE_MUSIC_DEVELOPER_TOKEN"),
		UserToken:      os.Getenv("APPLE_MUSIC_USER_TOKEN"),
		SettingsPath:   getEnvOrDefault("ACCENTS_SETTINGS", filepath.Join(configDir(), "settings.bin")),
		StylesheetPath: getEnvOrDefault("ACCENTS_STYLESHEET", filepath.Join(configDir(), "accents.css")),
		CacheDir:       getEnvOrDefault("ACCENTS_CACHE_DIR", cacheDir()),
		Appearance:     strings.ToLower(getEnvOrDefault("ACCENTS_APPEARANCE", DefaultAppearance)),
		Immersive:      parseBool(os.Getenv("ACCENTS_IMMERSIVE")),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:        getEnvOrDefault("ACCENTS_LOG_FILE", filepath.Join(configDir(), "accents.log")),
		Development:    parseBool(os.Getenv("ACCENTS_DEV")),
	}
}

func configDir() string {
	// xdg config home takes priority
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

// cacheDir holds extracted palettes. removing it is always safe.
func cacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName, "palettes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appDirName, "palettes")
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
