package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"karolbroda.com/adaptiveaccents/internal/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Run: func(cmd *cobra.Command, args []string) {
		for _, line := range ui.Banner("accents") {
			fmt.Println(line)
		}
		fmt.Printf("\nadaptiveaccents %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
