package raster

import (
	"image"

	"github.com/cwbudde/parallax/internal/blend"
)

// DrawSprite composites img onto s with its top-left corner at off, scaling
// every source pixel into an upscale x upscale block (nearest neighbour).
//
// Destination pixels falling outside s are skipped. The iteration range is
// clipped to the surface up front, so a sprite far off screen costs nothing;
// the pixels written are the same as walking the whole scaled image.
// An upscale below 1 draws nothing.
func DrawSprite(s *Surface, img *Image, off image.Point, upscale int) {
	if upscale < 1 || img == nil || img.Width <= 0 || img.Height <= 0 {
		return
	}

	// Scaled extent in destination space
	sw := img.Width * upscale
	sh := img.Height * upscale

	// Clip [0, sw) x [0, sh) against the surface
	i0 := max(0, -off.X)
	i1 := min(sw, s.Width-off.X)
	j0 := max(0, -off.Y)
	j1 := min(sh, s.Height-off.Y)

	if i0 >= i1 || j0 >= j1 {
		return
	}

	for j := j0; j < j1; j++ {
		srcRow := img.Pix[(j/upscale)*img.Width : (j/upscale+1)*img.Width]
		dstRow := s.Row(j + off.Y)

		for i := i0; i < i1; i++ {
			d := i + off.X
			dstRow[d] = blend.Over(srcRow[i/upscale], dstRow[d])
		}
	}
}
