package raster

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned by Diff when the two surfaces differ in size.
var ErrSizeMismatch = errors.New("surface dimensions differ")

// DiffStats summarizes how far two surfaces are apart.
type DiffStats struct {
	Pixels   int    // Pixels with any differing channel (alpha included)
	MaxDelta uint32 // Largest absolute difference on a single channel
	SAD      uint64 // Sum of absolute differences over R, G, B
}

// Equal reports whether the surfaces were identical.
func (d DiffStats) Equal() bool {
	return d.Pixels == 0
}

// Diff compares a and b pixel by pixel.
//
// For each pixel: value = |R1-R2| + |G1-G2| + |B1-B2|, accumulated into SAD.
// Alpha only counts toward Pixels and MaxDelta.
func Diff(a, b *Surface) (DiffStats, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return DiffStats{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, a.Width, a.Height, b.Width, b.Height)
	}

	var stats DiffStats
	for i, pa := range a.Pix {
		pb := b.Pix[i]
		if pa == pb {
			continue
		}
		stats.Pixels++

		ar, ag, ab, aa := pa.Unpack()
		br, bg, bb, ba := pb.Unpack()

		dr := absDiff(ar, br)
		dg := absDiff(ag, bg)
		db := absDiff(ab, bb)
		da := absDiff(aa, ba)

		stats.SAD += uint64(dr + dg + db)
		stats.MaxDelta = max(stats.MaxDelta, dr, dg, db, da)
	}

	return stats, nil
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
