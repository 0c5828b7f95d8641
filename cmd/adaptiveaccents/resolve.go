package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/accent"
	"karolbroda.com/adaptiveaccents/internal/colors"
	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/logger"
	"karolbroda.com/adaptiveaccents/internal/pipeline"
	"karolbroda.com/adaptiveaccents/internal/track"
)

var (
	// flags for resolve
	resolveCatalog    string
	resolveAlbum      string
	resolvePlayParams string
	resolveWrite      bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "run the accent pipeline for one track",
	Long: `builds a playback event from the given ids, runs it through the pipeline once
and prints the resolved accent colors. nothing is written unless --write is set.`,
	Example: `  adaptiveaccents resolve --catalog 1440818840
  adaptiveaccents resolve --album 1440818839 --write`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if resolveCatalog == "" && resolveAlbum == "" && resolvePlayParams == "" {
			return errors.New("one of --catalog, --album or --play-params is required")
		}

		cfg := loadConfig(cmd)
		log := logger.New(cfg.LogLevel, cfg.Development)
		defer log.Sync()

		eng, err := newEngine(cfg, log)
		if err != nil {
			return err
		}

		event := eventFromIDs(resolveCatalog, resolveAlbum, resolvePlayParams)

		rec := host.NewRecorder()
		displays := host.Multi{rec}
		if resolveWrite {
			displays = append(displays, host.NewCSSFile(cfg.StylesheetPath))
		}

		orchestrator := pipeline.New(eng.store, eng.fetcher, eng.selector, displays, log, pipeline.DefaultOptions())
		res, err := orchestrator.Process(context.Background(), event)
		if err != nil {
			return err
		}

		fmt.Printf("resolved:   %s\n", res.Resolution)
		if res.Album != nil {
			fmt.Printf("album:      %s\n", res.Album.ID)
			if res.Album.Attributes != nil && res.Album.Attributes.Name != "" {
				fmt.Printf("name:       %s - %s\n", res.Album.Attributes.ArtistName, res.Album.Attributes.Name)
			}
			fmt.Printf("href:       %s\n", res.Album.Href)
		}
		fmt.Println()
		printApplied("keyColor", res.Colors.KeyColor)
		printApplied("musicKeyColor", res.Colors.MusicKeyColor)

		if resolveWrite {
			fmt.Printf("\nwritten to %s\n", cfg.StylesheetPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveCatalog, "catalog", "", "catalog song id (playParams.catalogId)")
	resolveCmd.Flags().StringVar(&resolveAlbum, "album", "", "album id from the item's album relationship")
	resolveCmd.Flags().StringVar(&resolvePlayParams, "play-params", "", "playParams.id (library ids start with i.)")
	resolveCmd.Flags().BoolVar(&resolveWrite, "write", false, "also write the stylesheet")
}

func eventFromIDs(catalogID string, albumID string, playParamsID string) track.PlaybackEvent {
	item := &track.Item{Attributes: &track.Attributes{}}

	if catalogID != "" || playParamsID != "" {
		item.Attributes.PlayParams = &track.PlayParams{ID: playParamsID, CatalogID: catalogID}
	}
	if albumID != "" {
		item.Relationships = &track.Relationships{
			Albums: &track.ResourceList{Data: []track.Resource{{ID: albumID, Type: "albums"}}},
		}
	}

	return track.PlaybackEvent{Item: item}
}

func printApplied(label string, a *accent.Applied) {
	if a == nil {
		fmt.Printf("%-14s left to the host\n", label+":")
		return
	}

	fmt.Printf("%-14s %s\n", label+":", colors.RenderSwatch(a.Color, a.Source))
	if a.Background != "" {
		ratio, _ := colors.ContrastRatio(a.Color, a.Background)
		fmt.Printf("%-14s #%s -> #%s in %d steps, %.2f:1 against #%s\n", "", a.Raw, a.Color, a.Attempts, ratio, a.Background)
	} else {
		fmt.Printf("%-14s host value, not adjusted\n", "")
	}
}
