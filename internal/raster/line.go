package raster

import (
	"github.com/cwbudde/parallax/internal/blend"
	"github.com/cwbudde/parallax/internal/pixel"
)

// 16.16 fixed point.
const (
	fixedShift = 16
	fixedOne   = 1 << fixedShift
	fixedHalf  = fixedOne / 2
)

// DrawLine blends c onto every pixel of the line from (x0, y0) to (x1, y1),
// both ends included.
//
// The walk is a fixed-point DDA: the major axis advances one whole pixel per
// step and the minor axis by 65536*d/g (truncated toward zero), starting
// from the pixel centres. A zero-length line draws the single pixel
// (x0, y0).
func DrawLine(s *Surface, x0, y0, x1, y1 int, c pixel.Color) {
	dx := x1 - x0
	dy := y1 - y0

	var g, stepX, stepY int
	if abs(dx) >= abs(dy) {
		g = abs(dx)
		if g != 0 {
			stepY = fixedOne * dy / g
		}
		stepX = sign(dx) * fixedOne
	} else {
		g = abs(dy)
		stepX = fixedOne * dx / g
		stepY = sign(dy) * fixedOne
	}

	x := fixedOne*x0 + fixedHalf
	y := fixedOne*y0 + fixedHalf

	for ; g >= 0; g-- {
		px, py := x>>fixedShift, y>>fixedShift
		if s.In(px, py) {
			i := py*s.Width + px
			s.Pix[i] = blend.Over(c, s.Pix[i])
		}
		x += stepX
		y += stepY
	}
}

// DrawRect outlines the w x h rectangle whose top-left pixel is (x, y), so
// the outline covers [x, x+w-1] x [y, y+h-1].
//
// Each edge is a separate line; the four corners are blended twice, which
// darkens them for a translucent c.
func DrawRect(s *Surface, x, y, w, h int, c pixel.Color) {
	x1 := x + w - 1
	y1 := y + h - 1

	DrawLine(s, x, y, x1, y, c)
	DrawLine(s, x1, y, x1, y1, c)
	DrawLine(s, x1, y1, x, y1, c)
	DrawLine(s, x, y1, x, y, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
