package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/parallax/internal/pixel"
	"github.com/cwbudde/parallax/internal/scene"
)

// sceneFlags are shared by every command that runs the scene.
type sceneFlags struct {
	assets     string
	width      int
	height     int
	volume     float64
	upscale    int
	tiles      int
	background []uint
}

func (f *sceneFlags) register(cmd *cobra.Command, width, height int) {
	def := scene.DefaultConfig()
	r, g, b, a := def.Background.Unpack()

	cmd.Flags().StringVar(&f.assets, "assets", "./assets", "Directory holding image/ and audio/")
	cmd.Flags().IntVar(&f.width, "width", width, "Screen width in pixels")
	cmd.Flags().IntVar(&f.height, "height", height, "Screen height in pixels")
	cmd.Flags().Float64Var(&f.volume, "volume", def.Volume, "Music volume (0-1)")
	cmd.Flags().IntVar(&f.upscale, "upscale", def.Upscale, "Integer scale applied to the parallax layers")
	cmd.Flags().IntVar(&f.tiles, "tiles", def.Tiles, "Horizontal copies per layer")
	cmd.Flags().UintSliceVar(&f.background, "background", []uint{uint(r), uint(g), uint(b), uint(a)}, "Clear color as r,g,b,a")
}

// config builds a validated scene config from the flags.
func (f *sceneFlags) config() (scene.Config, error) {
	if f.width <= 0 || f.height <= 0 {
		return scene.Config{}, fmt.Errorf("screen size must be positive, got %dx%d", f.width, f.height)
	}
	if len(f.background) != 4 {
		return scene.Config{}, fmt.Errorf("background needs 4 components, got %d", len(f.background))
	}

	cfg := scene.DefaultConfig()
	cfg.Volume = f.volume
	cfg.Upscale = f.upscale
	cfg.Tiles = f.tiles
	cfg.Background = pixel.Pack(uint32(f.background[0]), uint32(f.background[1]), uint32(f.background[2]), uint32(f.background[3]))

	if err := cfg.Validate(); err != nil {
		return scene.Config{}, err
	}
	return cfg, nil
}

// assetFS opens the asset directory.
func (f *sceneFlags) assetFS() (fs.FS, error) {
	info, err := os.Stat(f.assets)
	if err != nil {
		return nil, fmt.Errorf("failed to open assets: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets path %s is not a directory", f.assets)
	}
	return os.DirFS(f.assets), nil
}
