package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage plugin settings",
	Long: `view and change the persisted plugin settings. a running daemon picks up
changes after SIGHUP.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, path, err := openSettings(cmd)
		if err != nil {
			return err
		}

		c := store.Snapshot()
		fmt.Printf("location:      %s\n\n", path)
		fmt.Printf("frozen:        %v\n", c.Frozen)
		fmt.Printf("algorithm:     %s\n", c.Algorithm)
		fmt.Printf("keyColor:      %s\n", c.KeyColor)
		fmt.Printf("musicKeyColor: %s\n", c.MusicKeyColor)
		fmt.Printf("scheme:        %s\n", c.Scheme)
		fmt.Printf("storefront:    %s\n", store.Storefront())

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "change a setting",
	Long: `keys: frozen (true/false), algorithm (swatch/vibrant), keyColor and
musicKeyColor (textColor1-4, bgColor or cider to leave the host color),
scheme (match/flip), storefront.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openSettings(cmd)
		if err != nil {
			return err
		}

		err = applySetting(store, args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openSettings(cmd)
		if err != nil {
			return err
		}

		err = store.Reset()
		if err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}

		fmt.Println("settings reset to defaults")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
}

func openSettings(cmd *cobra.Command) (*settings.Store, string, error) {
	cfg := loadConfig(cmd)
	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open settings: %w", err)
	}
	return store, cfg.SettingsPath, nil
}

func applySetting(store *settings.Store, key string, value string) error {
	switch strings.ToLower(key) {
	case "storefront":
		return store.SetStorefront(value)
	case "frozen":
		frozen, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: frozen %q", settings.ErrInvalidValue, value)
		}
		return store.Update(func(c *settings.Config) { c.Frozen = frozen })
	case "algorithm":
		return store.Update(func(c *settings.Config) { c.Algorithm = settings.Algorithm(value) })
	case "keycolor":
		return store.Update(func(c *settings.Config) { c.KeyColor = value })
	case "musickeycolor":
		return store.Update(func(c *settings.Config) { c.MusicKeyColor = value })
	case "scheme":
		return store.Update(func(c *settings.Config) { c.Scheme = settings.Scheme(value) })
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}
