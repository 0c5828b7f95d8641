package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/config"
)

const version = "1.0.0"

var (
	// global flags
	mprisService   string
	appearanceFlag string
	immersiveFlag  bool
	stylesheetPath string
	settingsPath   string
	cacheDir       string
	apiBaseURL     string
	logLevel       string
	devLogging     bool
)

var rootCmd = &cobra.Command{
	Use:   "adaptiveaccents",
	Short: "album-driven accent colors for your music player",
	Long: `adaptiveaccents follows the track playing in an mpris music player, looks up
its album on apple music and derives the --keyColor and --musicKeyColor accent
colors from the album artwork, adjusted for contrast.

when run without a subcommand, it starts the daemon with the terminal preview.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris service name (e.g., org.mpris.MediaPlayer2.cider)")
	rootCmd.PersistentFlags().StringVar(&appearanceFlag, "appearance", "", "host appearance: dark, light or auto")
	rootCmd.PersistentFlags().BoolVar(&immersiveFlag, "immersive", false, "use the artwork background color in dark mode")
	rootCmd.PersistentFlags().StringVar(&stylesheetPath, "stylesheet", "", "stylesheet the accent properties are written to")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "plugin settings file")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "directory for extracted palettes")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "apple music api base url")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&devLogging, "dev", false, "human readable logs")
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()

	if mprisService != "" {
		cfg.MprisService = mprisService
	}
	if appearanceFlag != "" {
		cfg.Appearance = appearanceFlag
	}
	if cmd.Flags().Changed("immersive") {
		cfg.Immersive = immersiveFlag
	}
	if stylesheetPath != "" {
		cfg.StylesheetPath = stylesheetPath
	}
	if settingsPath != "" {
		cfg.SettingsPath = settingsPath
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("dev") {
		cfg.Development = devLogging
	}

	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
