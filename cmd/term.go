package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/cwbudde/parallax/internal/host/term"
)

var (
	termScene sceneFlags
	termFPS   int
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Run the animation in the terminal",
	Long: `Renders the animation with half-block characters in a true-color terminal.
Click to toggle the music (recorded only, terminals play no sound).
Press q or Esc to quit. Use --log-file to keep logs off the screen.`,
	RunE: runTerm,
}

func init() {
	termScene.register(termCmd, 320, 180)
	termCmd.Flags().IntVar(&termFPS, "fps", 30, "Frames per second")

	rootCmd.AddCommand(termCmd)
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, err := termScene.config()
	if err != nil {
		return err
	}
	fsys, err := termScene.assetFS()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return term.Run(ctx, screen, term.Options{
		Width:  termScene.width,
		Height: termScene.height,
		FPS:    termFPS,
		Assets: fsys,
	}, cfg)
}
