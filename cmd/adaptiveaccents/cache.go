package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/artwork"
	"karolbroda.com/adaptiveaccents/internal/cache"
	"karolbroda.com/adaptiveaccents/internal/colors"
)

var (
	// flags for cache clear
	cacheConfirm bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "manage the palette cache",
	Long:  `manage locally extracted artwork palettes, including statistics, listing and clearing.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		palettes, err := openCache(cmd)
		if err != nil {
			return err
		}

		count, sizeBytes, err := palettes.Stats()
		if err != nil {
			return fmt.Errorf("failed to get cache stats: %w", err)
		}

		fmt.Println("cache statistics:")
		fmt.Printf("  location: %s\n", palettes.Path())
		fmt.Printf("  entries:  %d\n", count)
		fmt.Printf("  size:     %s\n", formatBytes(sizeBytes))

		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "list cached palettes",
	RunE: func(cmd *cobra.Command, args []string) error {
		palettes, err := openCache(cmd)
		if err != nil {
			return err
		}

		entries, err := palettes.ListAll()
		if err != nil {
			return fmt.Errorf("failed to list cache: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].CreatedAt > entries[j].CreatedAt
		})

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Vibrant", "Muted", "Cached", "URL"})

		for _, entry := range entries {
			sw := artwork.Swatches(entry.Swatches)
			t.AppendRow(table.Row{
				swatchOrDash(sw, artwork.Vibrant),
				swatchOrDash(sw, artwork.Muted),
				time.Unix(entry.CreatedAt, 0).Format("2006-01-02"),
				color.HiBlackString(entry.URL),
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()

		fmt.Println()
		color.New(color.FgGreen, color.Bold).Printf("total: %d palettes\n", len(entries))

		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "remove expired palettes",
	RunE: func(cmd *cobra.Command, args []string) error {
		palettes, err := openCache(cmd)
		if err != nil {
			return err
		}

		pruned, err := palettes.Prune()
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}

		fmt.Printf("pruned %d palette(s)\n", pruned)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "remove every cached palette",
	RunE: func(cmd *cobra.Command, args []string) error {
		palettes, err := openCache(cmd)
		if err != nil {
			return err
		}

		if !cacheConfirm {
			count, _, _ := palettes.Stats()
			fmt.Printf("this will remove %d cached palette(s) from %s\n", count, palettes.Path())
			color.Yellow("run again with --yes to confirm")
			return nil
		}

		err = palettes.Clear()
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		color.Green("cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().BoolVarP(&cacheConfirm, "yes", "y", false, "skip confirmation")
}

func openCache(cmd *cobra.Command) (*cache.DiskCache, error) {
	cfg := loadConfig(cmd)
	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("no cache directory configured")
	}
	palettes, err := cache.Open(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return palettes, nil
}

func swatchOrDash(sw artwork.Swatches, name string) string {
	v, ok := sw.Get(name)
	if !ok {
		return "-"
	}
	return colors.RenderSwatch(v, "")
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
