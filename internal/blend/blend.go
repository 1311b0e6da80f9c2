// Package blend implements the "source over destination" compositing used
// by the rasterizer, in a scalar form and a 4-lane form for bulk work.
//
// The arithmetic divides by 256 (a shift) rather than 255, so results are
// biased low. Output must match this exactly:
//
//	out = (src*a + dst*(255-a)) >> 8
//
// Composited pixels are always opaque; the output alpha is forced to 255.
package blend

import "github.com/cwbudde/parallax/internal/pixel"

// Over composites src over dst using src's alpha as coverage.
//
// A fully transparent src returns dst untouched and a fully opaque src is
// returned as is (its own alpha included). Every other case yields an opaque
// pixel.
func Over(src, dst pixel.Color) pixel.Color {
	sr, sg, sb, a := src.Unpack()

	if a == 0 {
		return dst
	}
	if a == 255 {
		return src
	}

	dr, dg, db, _ := dst.Unpack()
	inv := 255 - a

	r := (sr*a + dr*inv) >> 8
	g := (sg*a + dg*inv) >> 8
	b := (sb*a + db*inv) >> 8

	return pixel.Pack(r, g, b, 0xFF)
}

// overFormula is Over without the transparent/opaque shortcuts. It is the
// per-lane operation of the vector path and the remainder loop of OverSpan.
func overFormula(src, dst pixel.Color) pixel.Color {
	sr, sg, sb, a := src.Unpack()
	dr, dg, db, _ := dst.Unpack()
	inv := 255 - a

	r := (sr*a + dr*inv) >> 8
	g := (sg*a + dg*inv) >> 8
	b := (sb*a + db*inv) >> 8

	return pixel.Pack(r, g, b, 0xFF)
}
