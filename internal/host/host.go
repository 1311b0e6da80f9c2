// Package host declares the capabilities the animation consumes from its
// environment. The scene depends only on these interfaces; concrete hosts
// (headless, desktop window, terminal) live in sub-packages.
package host

import (
	"image"

	"github.com/cwbudde/parallax/internal/raster"
)

// ImageHandle identifies an image requested from Assets.
type ImageHandle int

// AudioHandle identifies an audio track requested from Audio.
type AudioHandle int

// InvalidHandle is returned when a request could not be issued at all.
const InvalidHandle = -1

// Assets loads images asynchronously.
type Assets interface {
	// RequestImage starts loading uri and returns immediately.
	RequestImage(uri string) ImageHandle

	// ImageReady is a non-blocking poll; it turns true once decoding finished.
	ImageReady(h ImageHandle) bool

	// Image returns the decoded image. Only valid once ImageReady is true.
	Image(h ImageHandle) *raster.Image
}

// Audio controls playback. Calls are fire and forget; failures are logged
// by the implementation.
type Audio interface {
	RequestAudio(uri string) AudioHandle
	Play(h AudioHandle, loop bool)
	Pause(h AudioHandle)
	SetVolume(h AudioHandle, level float64)
}

// Input exposes read-only snapshots valid for the current frame.
type Input interface {
	Cursor() image.Point
	Keys() []bool
	Buttons() []bool
}

// Host is the full capability set handed to the scene.
type Host interface {
	Assets
	Audio
	Input

	// Screen returns the surface to composite the current frame into.
	Screen() *raster.Surface
}
