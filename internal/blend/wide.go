package blend

import "github.com/cwbudde/parallax/internal/pixel"

// U32x4 holds one channel of four pixels. Fixed-size arrays and plain loops
// let the compiler keep the lanes in vector registers where it can.
type U32x4 [4]uint32

// SplatU32 broadcasts n to all four lanes.
func SplatU32(n uint32) U32x4 {
	return U32x4{n, n, n, n}
}

// Mul performs lane-wise multiplication.
func (v U32x4) Mul(o U32x4) U32x4 {
	var r U32x4
	for i := range v {
		r[i] = v[i] * o[i]
	}
	return r
}

// Add performs lane-wise addition.
func (v U32x4) Add(o U32x4) U32x4 {
	var r U32x4
	for i := range v {
		r[i] = v[i] + o[i]
	}
	return r
}

// Inv computes 255 - v per lane.
func (v U32x4) Inv() U32x4 {
	var r U32x4
	for i := range v {
		r[i] = 255 - v[i]
	}
	return r
}

// Shr8 shifts every lane right by 8.
func (v U32x4) Shr8() U32x4 {
	var r U32x4
	for i := range v {
		r[i] = v[i] >> 8
	}
	return r
}

// Quad is four packed pixels processed together.
type Quad [4]pixel.Color

// quadState is a Structure-of-Arrays view of a source and destination Quad.
//
//	AoS: [R0 G0 B0 A0] [R1 G1 B1 A1] ...
//	SoA: SR [R0 R1 R2 R3], SG [G0 G1 G2 G3], ...
type quadState struct {
	SR, SG, SB, SA U32x4
	DR, DG, DB     U32x4
}

func (q *quadState) load(src, dst Quad) {
	for i := 0; i < 4; i++ {
		s, d := uint32(src[i]), uint32(dst[i])
		q.SR[i] = s & 0xFF
		q.SG[i] = (s >> 8) & 0xFF
		q.SB[i] = (s >> 16) & 0xFF
		q.SA[i] = s >> 24
		q.DR[i] = d & 0xFF
		q.DG[i] = (d >> 8) & 0xFF
		q.DB[i] = (d >> 16) & 0xFF
	}
}

// Over4 composites four source pixels over four destination pixels.
//
// Unlike Over there is no shortcut for alpha 0 or 255: every lane runs the
// weighted average. At those boundaries a lane comes out one below the
// scalar pass-through for any nonzero channel, e.g. alpha 255 over anything
// turns channel 200 into (200*255)>>8 = 199. Output alpha is always 255.
func Over4(src, dst Quad) Quad {
	var q quadState
	q.load(src, dst)

	a := q.SA
	inv := a.Inv()

	r := q.SR.Mul(a).Add(q.DR.Mul(inv)).Shr8()
	g := q.SG.Mul(a).Add(q.DG.Mul(inv)).Shr8()
	b := q.SB.Mul(a).Add(q.DB.Mul(inv)).Shr8()

	var out Quad
	for i := range out {
		out[i] = pixel.Color(r[i] | g[i]<<8 | b[i]<<16 | 0xFF<<24)
	}
	return out
}

// Splat4 broadcasts a single color to all four lanes.
func Splat4(c pixel.Color) Quad {
	return Quad{c, c, c, c}
}
