package raster

import (
	"github.com/cwbudde/parallax/internal/blend"
	"github.com/cwbudde/parallax/internal/pixel"
)

// Clear sets every pixel of s to c.
//
// Rows are filled eight pixels per step as two 4-wide stores of the
// broadcast color, with a scalar tail for widths that are not a multiple
// of 8.
func Clear(s *Surface, c pixel.Color) {
	q := blend.Splat4(c)

	for y := 0; y < s.Height; y++ {
		fillRow(s.Row(y), q)
	}
}

// fillRow stores q's color across row.
func fillRow(row []pixel.Color, q blend.Quad) {
	n := len(row)
	i := 0

	for ; i+8 <= n; i += 8 {
		*(*blend.Quad)(row[i : i+4]) = q
		*(*blend.Quad)(row[i+4 : i+8]) = q
	}

	for ; i < n; i++ {
		row[i] = q[0]
	}
}
