// Package pixel defines the packed 32-bit color used by every surface and
// image in the compositor.
//
// A Color stores four 8-bit channels as r | g<<8 | b<<16 | a<<24. Stored in
// little-endian memory the bytes read R, G, B, A, which is the same layout as
// image.NRGBA's Pix slice, so a surface can be handed to an image encoder or a
// window backend without swizzling.
package pixel

import (
	"encoding/binary"
	"image/color"
)

// Color is a packed, non-premultiplied RGBA color.
type Color uint32

// Channel shifts within a packed Color.
const (
	ShiftR = 0
	ShiftG = 8
	ShiftB = 16
	ShiftA = 24
)

// Common colors.
const (
	Transparent Color = 0
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
)

// Pack builds a Color from four channel values. Only the low 8 bits of each
// argument are kept, so an out-of-range channel never bleeds into its
// neighbour.
func Pack(r, g, b, a uint32) Color {
	return Color((r&0xFF)<<ShiftR | (g&0xFF)<<ShiftG | (b&0xFF)<<ShiftB | (a&0xFF)<<ShiftA)
}

// Unpack splits c into its channels, each in [0, 255].
func (c Color) Unpack() (r, g, b, a uint32) {
	v := uint32(c)
	return (v >> ShiftR) & 0xFF, (v >> ShiftG) & 0xFF, (v >> ShiftB) & 0xFF, (v >> ShiftA) & 0xFF
}

func (c Color) R() uint32 { return (uint32(c) >> ShiftR) & 0xFF }
func (c Color) G() uint32 { return (uint32(c) >> ShiftG) & 0xFF }
func (c Color) B() uint32 { return (uint32(c) >> ShiftB) & 0xFF }
func (c Color) A() uint32 { return (uint32(c) >> ShiftA) & 0xFF }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint32) Color {
	return c&0x00FFFFFF | Color((a&0xFF)<<ShiftA)
}

// NRGBA converts c to the standard library's non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, a := c.Unpack()
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}

// FromNRGBA packs a standard library color.
func FromNRGBA(c color.NRGBA) Color {
	return Pack(uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A))
}

// Convert packs any color.Color, un-premultiplying it first.
func Convert(c color.Color) Color {
	return FromNRGBA(color.NRGBAModel.Convert(c).(color.NRGBA))
}

// Decode reads len(dst) colors from RGBA-ordered bytes in src.
// src must hold at least 4*len(dst) bytes.
func Decode(dst []Color, src []byte) {
	for i := range dst {
		dst[i] = Color(binary.LittleEndian.Uint32(src[i*4:]))
	}
}

// Encode writes src as RGBA-ordered bytes into dst.
// dst must hold at least 4*len(src) bytes.
func Encode(dst []byte, src []Color) {
	for i, c := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], uint32(c))
	}
}
