package blend

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cwbudde/parallax/internal/pixel"
)

// randomColors returns n colors with a fixed seed
func randomColors(n int, seed int64) []pixel.Color {
	rng := rand.New(rand.NewSource(seed))
	out := make([]pixel.Color, n)
	for i := range out {
		out[i] = pixel.Color(rng.Uint32())
	}
	return out
}

func TestOver_TransparentSourceKeepsDestination(t *testing.T) {
	dsts := randomColors(64, 1)
	srcs := randomColors(64, 2)

	for i := range dsts {
		src := srcs[i].WithAlpha(0)
		if got := Over(src, dsts[i]); got != dsts[i] {
			t.Errorf("alpha 0: expected dst %#08x, got %#08x", uint32(dsts[i]), uint32(got))
		}
	}
}

func TestOver_OpaqueSourceReplacesDestination(t *testing.T) {
	dsts := randomColors(64, 3)
	srcs := randomColors(64, 4)

	for i := range dsts {
		src := srcs[i].WithAlpha(255)
		if got := Over(src, dsts[i]); got != src {
			t.Errorf("alpha 255: expected src %#08x, got %#08x", uint32(src), uint32(got))
		}
	}
}

// TestOver_AlwaysOpaque verifies every partially transparent blend yields alpha 255
func TestOver_AlwaysOpaque(t *testing.T) {
	dsts := randomColors(1024, 5)
	srcs := randomColors(1024, 6)

	for i := range dsts {
		src := srcs[i]
		if src.A() == 0 {
			continue // passes dst through, whatever its alpha
		}
		if got := Over(src, dsts[i]); got.A() != 255 {
			t.Fatalf("blend(%#08x, %#08x) alpha = %d", uint32(src), uint32(dsts[i]), got.A())
		}
	}
}

// TestOver_KnownValues checks the shift-by-8 truncation against hand-computed results
func TestOver_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		src, dst pixel.Color
		want     pixel.Color
	}{
		{
			// (255*128+0*127)>>8 = 127, (0*128+255*127)>>8 = 126
			name: "half red over blue",
			src:  pixel.Pack(255, 0, 0, 128),
			dst:  pixel.Pack(0, 0, 255, 255),
			want: pixel.Pack(127, 0, 126, 255),
		},
		{
			name: "alpha 1 over white",
			src:  pixel.Pack(0, 0, 0, 1),
			dst:  pixel.White,
			want: pixel.Pack(253, 253, 253, 255), // (255*254)>>8
		},
		{
			name: "alpha 254 white over black",
			src:  pixel.Pack(255, 255, 255, 254),
			dst:  pixel.Black,
			want: pixel.Pack(253, 253, 253, 255),
		},
		{
			name: "translucent over transparent",
			src:  pixel.Pack(100, 50, 25, 200),
			dst:  pixel.Transparent,
			want: pixel.Pack(78, 39, 19, 255),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Over(tc.src, tc.dst)
			if got != tc.want {
				r, g, b, a := got.Unpack()
				t.Errorf("expected %#08x, got %#08x (%d,%d,%d,%d)", uint32(tc.want), uint32(got), r, g, b, a)
			}
		})
	}
}

// TestOver4_MatchesScalarForPartialAlpha verifies lanes agree with Over away from the shortcuts
func TestOver4_MatchesScalarForPartialAlpha(t *testing.T) {
	srcs := randomColors(4096, 7)
	dsts := randomColors(4096, 8)

	for i := 0; i+4 <= len(srcs); i += 4 {
		var s, d Quad
		for l := 0; l < 4; l++ {
			a := srcs[i+l].A()
			if a == 0 || a == 255 {
				a = 77
			}
			s[l] = srcs[i+l].WithAlpha(a)
			d[l] = dsts[i+l]
		}

		got := Over4(s, d)
		for l := 0; l < 4; l++ {
			if want := Over(s[l], d[l]); got[l] != want {
				t.Fatalf("lane %d: Over4=%#08x Over=%#08x", l, uint32(got[l]), uint32(want))
			}
		}
	}
}

// TestOver4_BoundaryAlpha documents the vector path at alpha 0 and 255:
// it runs the formula instead of passing a pixel through, so each channel
// may come out one below the scalar result, never more.
func TestOver4_BoundaryAlpha(t *testing.T) {
	srcs := randomColors(256, 9)
	dsts := randomColors(256, 10)

	for _, alpha := range []uint32{0, 255} {
		t.Run(fmt.Sprintf("alpha_%d", alpha), func(t *testing.T) {
			for i := 0; i+4 <= len(srcs); i += 4 {
				var s, d Quad
				for l := 0; l < 4; l++ {
					s[l] = srcs[i+l].WithAlpha(alpha)
					d[l] = dsts[i+l]
				}

				got := Over4(s, d)
				for l := 0; l < 4; l++ {
					want := Over(s[l], d[l])
					if got[l].A() != 255 {
						t.Fatalf("lane %d alpha = %d, want 255", l, got[l].A())
					}
					gr, gg, gb, _ := got[l].Unpack()
					wr, wg, wb, _ := want.Unpack()
					for c, pair := range [][2]uint32{{gr, wr}, {gg, wg}, {gb, wb}} {
						if pair[0] > pair[1] || pair[1]-pair[0] > 1 {
							t.Fatalf("lane %d channel %d: vector %d, scalar %d", l, c, pair[0], pair[1])
						}
					}
				}
			}
		})
	}

	// Exact values at the boundaries
	s := Splat4(pixel.Pack(200, 0, 255, 255))
	d := Splat4(pixel.Pack(9, 9, 9, 255))
	if got := Over4(s, d)[0]; got != pixel.Pack(199, 0, 254, 255) {
		t.Errorf("alpha 255 lane: got %#08x", uint32(got))
	}
	s = Splat4(pixel.Pack(200, 0, 255, 0))
	d = Splat4(pixel.Pack(255, 128, 0, 255))
	if got := Over4(s, d)[0]; got != pixel.Pack(254, 127, 0, 255) {
		t.Errorf("alpha 0 lane: got %#08x", uint32(got))
	}
}

// TestOverSpan_ScalarEquivalence verifies the wide kernel matches the scalar kernel exactly
func TestOverSpan_ScalarEquivalence(t *testing.T) {
	lengths := []int{0, 1, 3, 4, 5, 8, 17, 64, 1023}

	for _, n := range lengths {
		t.Run(fmt.Sprintf("len_%d", n), func(t *testing.T) {
			src := randomColors(n, 11)
			base := randomColors(n, 12)

			scalar := append([]pixel.Color(nil), base...)
			wide := append([]pixel.Color(nil), base...)
			active := append([]pixel.Color(nil), base...)

			spanScalar(scalar, src)
			spanWide(wide, src)
			OverSpan(active, src)

			for i := range scalar {
				if scalar[i] != wide[i] || scalar[i] != active[i] {
					t.Fatalf("pixel %d: scalar=%#08x wide=%#08x active=%#08x backend=%s",
						i, uint32(scalar[i]), uint32(wide[i]), uint32(active[i]), ActiveBackend)
				}
			}
		})
	}
}

func TestOverSpan_ShortSource(t *testing.T) {
	dst := []pixel.Color{pixel.White, pixel.White, pixel.White}
	src := []pixel.Color{pixel.Pack(0, 0, 0, 128)}

	OverSpan(dst, src)

	// (255*127)>>8 = 126
	if dst[0] != pixel.Pack(126, 126, 126, 255) {
		t.Errorf("first pixel: got %#08x", uint32(dst[0]))
	}
	if dst[1] != pixel.White || dst[2] != pixel.White {
		t.Error("pixels past the source length must be untouched")
	}
}

func TestOverSpanColor_MatchesOverSpan(t *testing.T) {
	c := pixel.Pack(10, 200, 30, 90)
	base := randomColors(37, 13)

	a := append([]pixel.Color(nil), base...)
	b := append([]pixel.Color(nil), base...)
	src := make([]pixel.Color, len(base))
	for i := range src {
		src[i] = c
	}

	OverSpanColor(a, c)
	OverSpan(b, src)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pixel %d: OverSpanColor=%#08x OverSpan=%#08x", i, uint32(a[i]), uint32(b[i]))
		}
	}
}

func TestBackendString(t *testing.T) {
	if BackendScalar.String() != "scalar" || BackendWide.String() != "wide" {
		t.Error("unexpected backend names")
	}
	if Backend(99).String() != "unknown" {
		t.Error("unknown backend should report unknown")
	}
}

func BenchmarkOver(b *testing.B) {
	srcs := randomColors(1024, 1)
	dsts := randomColors(1024, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := range srcs {
			dsts[j] = Over(srcs[j], dsts[j])
		}
	}
}

func BenchmarkOverSpan(b *testing.B) {
	srcs := randomColors(1024, 1)
	dsts := randomColors(1024, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		OverSpan(dsts, srcs)
	}
}
