// Package desktop runs the scene in a window through ebiten, with mouse and
// keyboard input and looped music playback. Builds with the headless tag get
// a stub that refuses to start.
package desktop

import (
	"errors"
	"io/fs"
)

// ErrUnavailable is returned by Run in builds without a window system.
var ErrUnavailable = errors.New("desktop host not available in headless builds")

// Options configures the window.
type Options struct {
	Width  int // Logical screen width in pixels
	Height int
	Scale  int // Window pixels per logical pixel
	Title  string
	Assets fs.FS

	// SampleRate of the audio context. Tracks are resampled to it.
	SampleRate int
}

// DefaultOptions returns an 800x600 logical screen at 1x scale.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Scale:      1,
		Title:      "parallax",
		SampleRate: 44100,
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New("window size must be positive")
	}
	if o.Scale < 1 {
		return errors.New("scale must be >= 1")
	}
	if o.Assets == nil {
		return errors.New("no asset filesystem")
	}
	return nil
}
