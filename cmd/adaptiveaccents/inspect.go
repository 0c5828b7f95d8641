package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	applemusic "github.com/minchao/go-apple-music"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/accent"
	"karolbroda.com/adaptiveaccents/internal/album"
	"karolbroda.com/adaptiveaccents/internal/artwork"
	"karolbroda.com/adaptiveaccents/internal/colors"
	"karolbroda.com/adaptiveaccents/internal/logger"
	"karolbroda.com/adaptiveaccents/internal/settings"
	"karolbroda.com/adaptiveaccents/internal/track"
)

var (
	// flags for inspect
	inspectRelationship bool
	inspectExtract      bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "show how an id is fetched and what the album offers",
	Long: `classifies an album or song id, fetches the album and lists the artwork
swatches. with --extract the artwork palette is extracted locally as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		cfg := loadConfig(cmd)
		log := logger.New(cfg.LogLevel, cfg.Development)
		defer log.Sync()

		eng, err := newEngine(cfg, log)
		if err != nil {
			return err
		}

		kind := track.KindPlayParams
		if inspectRelationship {
			kind = track.KindRelationship
		}
		res := track.Resolution{Kind: kind, ID: id, RelationshipMode: inspectRelationship}

		fmt.Printf("id:         %s\n", id)
		fmt.Printf("class:      %s\n", album.Classify(id))
		fmt.Printf("storefront: %s\n\n", eng.fetcher.Storefront())

		ctx := context.Background()
		item, err := eng.fetcher.Fetch(ctx, res)
		if err != nil {
			return err
		}

		fmt.Printf("album:      %s (%s)\n", item.ID, item.Href)
		if item.Attributes != nil {
			fmt.Printf("name:       %s - %s\n", item.Attributes.ArtistName, item.Attributes.Name)
			if item.Attributes.ReleaseDate != "" {
				fmt.Printf("released:   %s\n", item.Attributes.ReleaseDate)
			}
		}

		art := item.Artwork()
		if art == nil {
			return accent.ErrMissingArtwork
		}

		fmt.Printf("artwork:    %dx%d\n\n", art.Width, art.Height)

		fmt.Println(swatchTable(art, eng.store.Snapshot()))

		if !inspectExtract {
			return nil
		}

		u, err := artwork.ImageURL(art, artwork.DefaultDivisor, artwork.DefaultFormat)
		if err != nil {
			return err
		}

		fmt.Printf("\nextracting %s\n\n", u)
		sw, err := artwork.NewRemote(eng.loader).Extract(ctx, u)
		if err != nil {
			return err
		}

		names := lo.Keys(sw)
		sort.Strings(names)

		for _, name := range names {
			hex, _ := sw.Get(name)
			fmt.Printf("  %s\n", colors.RenderSwatch(hex, name))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectRelationship, "relationship", false, "treat the id as a catalog album id")
	inspectCmd.Flags().BoolVar(&inspectExtract, "extract", false, "extract the artwork palette locally")
}

// swatchTable lists the descriptor swatches and which targets read them.
func swatchTable(art *applemusic.Artwork, pluginCfg settings.Config) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Swatch", "Color", "Used By"})
	for _, name := range settings.Swatches {
		swatch := color.HiBlackString("-")
		if v, err := accent.SwatchValue(art, name); err == nil {
			swatch = colors.RenderSwatch(v, "")
		}
		t.AppendRow(table.Row{name, swatch, usedBy(pluginCfg, name)})
	}
	t.SetStyle(table.StyleRounded)
	return t.Render()
}

func usedBy(cfg settings.Config, name string) string {
	var targets []string
	if cfg.KeyColor == name {
		targets = append(targets, "keyColor")
	}
	if cfg.MusicKeyColor == name {
		targets = append(targets, "musicKeyColor")
	}
	if len(targets) == 0 {
		return ""
	}
	return color.New(color.FgCyan).Sprint(strings.Join(targets, ", "))
}
