// Package headless provides an in-memory host: an owned surface, assets
// read from an fs.FS, recorded audio and scripted input. It backs the
// render command and the scene tests.
package headless

import (
	"context"
	"fmt"
	"image"
	"io/fs"

	"github.com/cwbudde/parallax/internal/assets"
	"github.com/cwbudde/parallax/internal/host"
	"github.com/cwbudde/parallax/internal/input"
	"github.com/cwbudde/parallax/internal/raster"
)

// Host implements host.Host entirely in memory.
type Host struct {
	screen *raster.Surface
	loader *assets.Loader
	audio  *AudioLog
	input  *input.State
}

var _ host.Host = (*Host)(nil)

// New creates a width x height host reading assets from fsys.
func New(width, height int, fsys fs.FS) *Host {
	loader := assets.NewLoader(fsys)
	return &Host{
		screen: raster.NewSurface(width, height),
		loader: loader,
		audio:  NewAudioLog(loader),
		input:  input.NewState(),
	}
}

// Screen returns the surface frames are composited into.
func (h *Host) Screen() *raster.Surface { return h.screen }

// Loader exposes the underlying asset loader.
func (h *Host) Loader() *assets.Loader { return h.loader }

// Audio exposes the recorded audio calls.
func (h *Host) Audio() *AudioLog { return h.audio }

// RequestImage starts loading uri.
func (h *Host) RequestImage(uri string) host.ImageHandle {
	return h.loader.RequestImage(uri)
}

// ImageReady polls the loader.
func (h *Host) ImageReady(img host.ImageHandle) bool {
	return h.loader.ImageReady(img)
}

// Image returns the decoded image.
func (h *Host) Image(img host.ImageHandle) *raster.Image {
	return h.loader.Image(img)
}

func (h *Host) RequestAudio(uri string) host.AudioHandle {
	return h.audio.RequestAudio(uri)
}

func (h *Host) Play(a host.AudioHandle, loop bool) { h.audio.Play(a, loop) }

func (h *Host) Pause(a host.AudioHandle) { h.audio.Pause(a) }

func (h *Host) SetVolume(a host.AudioHandle, level float64) {
	h.audio.SetVolume(a, level)
}

func (h *Host) Cursor() image.Point { return h.input.Cursor }

func (h *Host) Keys() []bool { return h.input.Keys }

func (h *Host) Buttons() []bool { return h.input.Buttons }

// SetCursor moves the scripted cursor.
func (h *Host) SetCursor(p image.Point) {
	h.input.Cursor = p
}

// Press holds button b down until Release.
func (h *Host) Press(b int) {
	h.input.SetButton(b, true)
}

// Release lets go of button b.
func (h *Host) Release(b int) {
	h.input.SetButton(b, false)
}

// Click moves the cursor to at and holds the left button. Call Release
// after the next frame to make a subsequent Click register as a new press.
func (h *Host) Click(at image.Point) {
	h.SetCursor(at)
	h.Press(input.ButtonLeft)
}

// SetKey records k as held or released.
func (h *Host) SetKey(k input.Key, down bool) {
	h.input.SetKey(k, down)
}

// WaitAssets blocks until every requested asset settled, ready or failed.
func (h *Host) WaitAssets(ctx context.Context) error {
	if err := h.loader.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for assets: %w", err)
	}
	return nil
}
