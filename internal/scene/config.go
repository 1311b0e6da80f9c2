package scene

import (
	"errors"
	"fmt"

	"github.com/cwbudde/parallax/internal/pixel"
)

// Config holds the asset locations and look of the parallax scene.
type Config struct {
	IconOff string   // Shown while the music is paused
	IconOn  string   // Shown while the music is playing
	Layers  []string // Back to front
	Music   string

	Volume     float64
	Background pixel.Color
	Upscale    int // Integer scale applied to every layer
	Tiles      int // Horizontal copies per layer

	HoverColor   pixel.Color // Translucent fill over the hovered icon
	OutlineColor pixel.Color // Outline around the hovered icon
}

// DefaultConfig returns the industrial parallax set.
func DefaultConfig() Config {
	return Config{
		IconOff: "./image/outline_volume_off_white_24dp.png",
		IconOn:  "./image/outline_volume_up_white_24dp.png",
		Layers: []string{
			"./image/bg.png",
			"./image/far-buildings.png",
			"./image/buildings.png",
			"./image/skill-foreground.png",
		},
		Music:        "./audio/industrial.wav",
		Volume:       0.125,
		Background:   pixel.Pack(25, 40, 31, 255),
		Upscale:      3,
		Tiles:        3,
		HoverColor:   pixel.Pack(255, 255, 255, 48),
		OutlineColor: pixel.Pack(255, 200, 64, 255),
	}
}

// Validate checks the config for values the frame loop cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.IconOff == "" || c.IconOn == "" {
		errs = append(errs, errors.New("both icon URIs are required"))
	}
	if len(c.Layers) == 0 {
		errs = append(errs, errors.New("at least one layer is required"))
	}
	if c.Upscale < 1 {
		errs = append(errs, fmt.Errorf("upscale must be >= 1, got %d", c.Upscale))
	}
	if c.Tiles < 1 {
		errs = append(errs, fmt.Errorf("tiles must be >= 1, got %d", c.Tiles))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be within [0, 1], got %g", c.Volume))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid scene config: %w", errors.Join(errs...))
	}
	return nil
}
