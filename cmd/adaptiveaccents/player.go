package main

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/player"
	"karolbroda.com/adaptiveaccents/internal/track"
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "mpris player utilities",
	Long:  `discover mpris-compatible music players and see what the daemon would resolve.`,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "list available mpris players",
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		services, err := player.ListPlayers(bus)
		if err != nil {
			return err
		}

		if len(services) == 0 {
			fmt.Println("no mpris players found")
			fmt.Println("\ncheck if your music player is running and supports mpris")
			return nil
		}

		fmt.Printf("found %d mpris player(s):\n\n", len(services))
		for _, service := range services {
			svc, err := player.NewService(bus, service, nil)
			if err != nil {
				continue
			}
			if identity := svc.Identity(); identity != "" {
				fmt.Printf("  %s (%s)\n", service, identity)
			} else {
				fmt.Printf("  %s\n", service)
			}
		}

		fmt.Println("\nuse --mpris-service flag to specify which player to use")

		return nil
	},
}

var playerCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "show the playing item and how it resolves",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		svc, err := player.NewService(bus, cfg.MprisService, nil)
		if err != nil {
			return fmt.Errorf("failed to connect to player: %w", err)
		}

		if !svc.HasOwner() {
			fmt.Printf("%s is not running\n", cfg.MprisService)
			return nil
		}

		item, err := svc.CurrentItem()
		if err != nil {
			fmt.Println("no track currently playing")
			return nil
		}

		fmt.Printf("track:      %s\n", item.Describe())
		if item.Attributes != nil && item.Attributes.AlbumName != "" {
			fmt.Printf("album:      %s\n", item.Attributes.AlbumName)
		}
		if playing, err := svc.Playing(); err == nil {
			state := "paused"
			if playing {
				state = "playing"
			}
			fmt.Printf("state:      %s\n", state)
		}

		res := track.Resolve(item)
		fmt.Printf("resolves:   %s\n", res)
		if res.RelationshipMode {
			fmt.Println("            (relationship mode, album fetched directly)")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(playerCmd)

	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerCurrentCmd)
}
