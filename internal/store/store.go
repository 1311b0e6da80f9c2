// Package store persists headless render runs: a manifest, PNG frame
// snapshots and a per-frame JSONL trace under <baseDir>/renders/<runID>/.
package store

import (
	"path/filepath"

	"github.com/cwbudde/parallax/internal/raster"
)

// Store defines the persistence operations for render runs.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return ErrNotFound if the run or frame doesn't exist (Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveManifest atomically writes the manifest of a run, replacing any
	// previous one.
	SaveManifest(runID string, m *Manifest) error

	// LoadManifest returns ErrNotFound when the run has no manifest.
	LoadManifest(runID string) (*Manifest, error)

	// SaveFrame atomically writes frame index of a run as PNG.
	SaveFrame(runID string, index int, s *raster.Surface) error

	// LoadFrame decodes a stored frame back into a surface.
	LoadFrame(runID string, index int) (*raster.Surface, error)

	// ListFrames returns the stored frame indices of a run in ascending order.
	ListFrames(runID string) ([]int, error)

	// ListRenders returns metadata for every run with a readable manifest.
	ListRenders() ([]RenderInfo, error)

	// DeleteRender removes the run directory with all frames and the trace.
	DeleteRender(runID string) error
}

// ErrNotFound is returned when a requested run or frame does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run or frame.
type NotFoundError struct {
	RunID string
	Frame int // -1 when the run itself is missing
}

func (e *NotFoundError) Error() string {
	switch {
	case e.RunID == "":
		return "render not found"
	case e.Frame >= 0:
		return "frame not found: " + e.RunID + "/" + frameName(e.Frame)
	default:
		return "render not found: " + e.RunID
	}
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// RenderDir returns the directory holding a run.
func RenderDir(baseDir, runID string) string {
	return filepath.Join(baseDir, "renders", runID)
}
