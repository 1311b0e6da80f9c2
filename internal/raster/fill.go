package raster

import (
	"image"

	"github.com/cwbudde/parallax/internal/blend"
	"github.com/cwbudde/parallax/internal/pixel"
)

// FillRect composites the flat color c over r, clipped to s.
//
// Fully transparent colors leave s untouched and fully opaque colors are
// stored directly. Anything in between goes through the bulk blend kernel
// row by row.
func FillRect(s *Surface, r image.Rectangle, c pixel.Color) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}

	switch c.A() {
	case 0:
		return
	case 255:
		q := blend.Splat4(c)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			fillRow(s.Row(y)[r.Min.X:r.Max.X], q)
		}
	default:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			blend.OverSpanColor(s.Row(y)[r.Min.X:r.Max.X], c)
		}
	}
}
