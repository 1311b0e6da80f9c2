package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/parallax/internal/host/desktop"
)

var (
	playScene sceneFlags
	playScale int
	playTitle string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the animation in a window",
	Long: `Opens a window and runs the animation at the display refresh rate.
Click anywhere to toggle the music. F11 toggles fullscreen.`,
	RunE: runPlay,
}

func init() {
	playScene.register(playCmd, 320, 180)
	playCmd.Flags().IntVar(&playScale, "scale", 3, "Window pixels per screen pixel")
	playCmd.Flags().StringVar(&playTitle, "title", "parallax", "Window title")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := playScene.config()
	if err != nil {
		return err
	}
	fsys, err := playScene.assetFS()
	if err != nil {
		return err
	}

	opts := desktop.DefaultOptions()
	opts.Width = playScene.width
	opts.Height = playScene.height
	opts.Scale = playScale
	opts.Title = playTitle
	opts.Assets = fsys

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return desktop.Run(ctx, opts, cfg)
}
