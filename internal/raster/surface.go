// Package raster is the software compositor: it draws sprites, lines,
// rectangle outlines and flat fills into a Surface of packed colors.
//
// All operations composite in place, back to front, and never allocate.
// Coordinates outside the surface are skipped silently; nothing here returns
// an error.
package raster

import (
	"image"

	"github.com/cwbudde/parallax/internal/pixel"
)

// Surface is a row-major buffer of packed colors the compositor writes into.
// Its storage usually belongs to the host; the compositor never resizes it.
type Surface struct {
	Width  int
	Height int
	Pix    []pixel.Color
}

// NewSurface allocates a zeroed (fully transparent) surface.
func NewSurface(width, height int) *Surface {
	return &Surface{
		Width:  width,
		Height: height,
		Pix:    make([]pixel.Color, width*height),
	}
}

// Wrap adopts pix as the backing store of a width x height surface without
// copying. pix must hold at least width*height colors.
func Wrap(pix []pixel.Color, width, height int) *Surface {
	return &Surface{
		Width:  width,
		Height: height,
		Pix:    pix[:width*height],
	}
}

// Len returns the total number of pixels.
func (s *Surface) Len() int {
	return len(s.Pix)
}

// Bounds returns the surface rectangle anchored at the origin.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// In reports whether (x, y) lies on the surface.
func (s *Surface) In(x, y int) bool {
	return x >= 0 && x < s.Width && y >= 0 && y < s.Height
}

// At returns the pixel at (x, y), or Transparent outside the surface.
func (s *Surface) At(x, y int) pixel.Color {
	if !s.In(x, y) {
		return pixel.Transparent
	}
	return s.Pix[y*s.Width+x]
}

// Set stores c at (x, y) without blending. Out-of-bounds writes are dropped.
func (s *Surface) Set(x, y int, c pixel.Color) {
	if !s.In(x, y) {
		return
	}
	s.Pix[y*s.Width+x] = c
}

// Row returns the pixels of row y.
func (s *Surface) Row(y int) []pixel.Color {
	return s.Pix[y*s.Width : (y+1)*s.Width]
}

// Bytes encodes the surface as RGBA bytes, reusing buf when it is large
// enough.
func (s *Surface) Bytes(buf []byte) []byte {
	n := len(s.Pix) * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	pixel.Encode(buf, s.Pix)
	return buf
}

// NRGBA copies the surface into a new image.NRGBA, ready for image/png.
func (s *Surface) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(s.Bounds())
	pixel.Encode(img.Pix, s.Pix)
	return img
}

// Image is a read-only grid of packed colors, typically a decoded asset.
type Image struct {
	Width  int
	Height int
	Pix    []pixel.Color
}

// NewImage wraps pix as a width x height image.
func NewImage(width, height int, pix []pixel.Color) *Image {
	return &Image{Width: width, Height: height, Pix: pix}
}

// At returns the pixel at (x, y). Coordinates must be in range.
func (img *Image) At(x, y int) pixel.Color {
	return img.Pix[y*img.Width+x]
}

// ImageFromNRGBA converts a decoded image into packed colors.
func ImageFromNRGBA(src *image.NRGBA) *Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]pixel.Color, w*h)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		pixel.Decode(pix[y*w:(y+1)*w], row)
	}

	return NewImage(w, h, pix)
}

// ImageFrom converts any image.Image, going through NRGBA when needed.
func ImageFrom(src image.Image) *Image {
	if n, ok := src.(*image.NRGBA); ok {
		return ImageFromNRGBA(n)
	}

	b := src.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return ImageFromNRGBA(n)
}
