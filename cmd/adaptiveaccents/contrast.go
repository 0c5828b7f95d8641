package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/colors"
)

var (
	// flags for contrast
	minContrast float64
	maxAttempts int
)

var contrastCmd = &cobra.Command{
	Use:   "contrast <color> <background>",
	Short: "adjust a color against a background",
	Long:  `measures the contrast ratio of two hex colors and steps the first one until it reaches the minimum.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := colors.ContrastRatio(args[0], args[1])
		if err != nil {
			return err
		}

		adj, err := colors.AdjustForContrast(args[0], args[1], minContrast, maxAttempts)
		if err != nil {
			return err
		}

		bg, _ := colors.Normalize(args[1])
		orig, _ := colors.Normalize(args[0])

		fmt.Printf("background: %s\n", colors.RenderSwatch(bg, ""))
		fmt.Printf("input:      %s %.2f:1\n", colors.RenderSwatch(orig, ""), before)
		fmt.Printf("result:     %s %.2f:1\n", colors.RenderSwatch(adj.Color, ""), adj.Ratio)
		fmt.Printf("steps:      %d of %d\n", adj.Attempts, maxAttempts)

		if adj.Ratio < minContrast {
			fmt.Println()
			color.Yellow("minimum %.1f:1 not reached within the attempt cap", minContrast)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(contrastCmd)

	contrastCmd.Flags().Float64Var(&minContrast, "min", colors.DefaultMinContrast, "minimum contrast ratio")
	contrastCmd.Flags().IntVar(&maxAttempts, "max-attempts", colors.DefaultMaxAttempts, "maximum adjustment steps")
}
