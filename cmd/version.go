package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cwbudde/parallax/internal/blend"
)

var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("parallax version %s (%s/%s, blend backend %s)\n",
			version, runtime.GOOS, runtime.GOARCH, blend.ActiveBackend)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
