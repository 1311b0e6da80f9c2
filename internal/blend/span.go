package blend

import (
	"log/slog"

	"golang.org/x/sys/cpu"

	"github.com/cwbudde/parallax/internal/pixel"
)

// Bulk blending kernel with runtime dispatch.
//
// Both kernels compute the shortcut-free formula and are bit-identical; the
// wide kernel only changes how the work is laid out (four lanes per step) so
// the compiler can vectorize it on targets with 128-bit vector units.
//
//   - spanWide:   Over4 per group of four, formula loop for the tail
//   - spanScalar: formula loop over every pixel

// Backend indicates which kernel OverSpan uses.
type Backend int

const (
	BackendScalar Backend = iota // Plain loop
	BackendWide                  // 4-lane groups (SSE2 / ASIMD / wasm simd128)
)

func (b Backend) String() string {
	switch b {
	case BackendWide:
		return "wide"
	case BackendScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// ActiveBackend reports which kernel was selected at initialization.
var ActiveBackend Backend

// spanKernel is the function pointer for runtime-dispatched span blending.
var spanKernel func(dst, src []pixel.Color)

func init() {
	if cpu.X86.HasSSE2 {
		ActiveBackend = BackendWide
		spanKernel = spanWide
		slog.Debug("Blend kernel initialized", "backend", "wide", "isa", "SSE2")
	} else if cpu.ARM64.HasASIMD {
		ActiveBackend = BackendWide
		spanKernel = spanWide
		slog.Debug("Blend kernel initialized", "backend", "wide", "isa", "ASIMD")
	} else {
		ActiveBackend = BackendScalar
		spanKernel = spanScalar
		slog.Debug("Blend kernel initialized", "backend", "scalar")
	}
}

// OverSpan composites src over dst pixel by pixel, writing into dst.
// Only the first min(len(dst), len(src)) pixels are touched.
//
// OverSpan follows the Over4 arithmetic (no alpha 0/255 shortcuts) for every
// pixel, whatever the backend.
func OverSpan(dst, src []pixel.Color) {
	n := min(len(dst), len(src))
	spanKernel(dst[:n], src[:n])
}

// OverSpanColor composites a single color over every pixel of dst.
func OverSpanColor(dst []pixel.Color, c pixel.Color) {
	n := len(dst)
	i := 0

	if ActiveBackend == BackendWide {
		s := Splat4(c)
		for ; i+4 <= n; i += 4 {
			d := (*Quad)(dst[i : i+4])
			*d = Over4(s, *d)
		}
	}

	for ; i < n; i++ {
		dst[i] = overFormula(c, dst[i])
	}
}

func spanWide(dst, src []pixel.Color) {
	n := len(dst)
	i := 0

	for ; i+4 <= n; i += 4 {
		d := (*Quad)(dst[i : i+4])
		s := (*Quad)(src[i : i+4])
		*d = Over4(*s, *d)
	}

	for ; i < n; i++ {
		dst[i] = overFormula(src[i], dst[i])
	}
}

func spanScalar(dst, src []pixel.Color) {
	for i := range dst {
		dst[i] = overFormula(src[i], dst[i])
	}
}
