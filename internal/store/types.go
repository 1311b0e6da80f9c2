package store

import (
	"fmt"
	"time"
)

// RenderConfig is the scene and host setup a run was produced with.
type RenderConfig struct {
	Assets     string  `json:"assets"`
	Upscale    int     `json:"upscale"`
	Tiles      int     `json:"tiles"`
	Volume     float64 `json:"volume"`
	Background uint32  `json:"background"` // Packed r | g<<8 | b<<16 | a<<24
	Clicks     []int   `json:"clicks,omitempty"`
}

// Manifest describes one headless render run.
type Manifest struct {
	// RunID is the unique identifier of the run
	RunID string `json:"runId"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Frames is the number of Frame calls made, Rendered how many of them
	// produced a picture (the rest were waiting on assets)
	Frames   int `json:"frames"`
	Rendered int `json:"rendered"`

	// Backend is the blend kernel that was active
	Backend string `json:"backend"`

	MusicPlaying bool `json:"musicPlaying"`

	Timestamp time.Time    `json:"timestamp"`
	Config    RenderConfig `json:"config"`
}

// RenderInfo is the listing view of a manifest.
type RenderInfo struct {
	RunID     string    `json:"runId"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Frames    int       `json:"frames"`
	Rendered  int       `json:"rendered"`
	Backend   string    `json:"backend"`
	Timestamp time.Time `json:"timestamp"`
}

// NewManifest creates a manifest stamped with the current time.
func NewManifest(runID string, width, height int, backend string, config RenderConfig) *Manifest {
	return &Manifest{
		RunID:     runID,
		Width:     width,
		Height:    height,
		Backend:   backend,
		Timestamp: time.Now(),
		Config:    config,
	}
}

// ToInfo converts a manifest to its listing view.
func (m *Manifest) ToInfo() RenderInfo {
	return RenderInfo{
		RunID:     m.RunID,
		Width:     m.Width,
		Height:    m.Height,
		Frames:    m.Frames,
		Rendered:  m.Rendered,
		Backend:   m.Backend,
		Timestamp: m.Timestamp,
	}
}

// Validate checks that the manifest is complete and consistent.
func (m *Manifest) Validate() error {
	if m.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if m.Width <= 0 {
		return &ValidationError{Field: "Width", Reason: "must be positive"}
	}
	if m.Height <= 0 {
		return &ValidationError{Field: "Height", Reason: "must be positive"}
	}
	if m.Frames < 0 {
		return &ValidationError{Field: "Frames", Reason: "cannot be negative"}
	}
	if m.Rendered < 0 || m.Rendered > m.Frames {
		return &ValidationError{
			Field:  "Rendered",
			Reason: fmt.Sprintf("must be within [0, %d]", m.Frames),
		}
	}
	if m.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if m.Config.Upscale < 1 {
		return &ValidationError{Field: "Config.Upscale", Reason: "must be >= 1"}
	}
	return nil
}

// ValidationError represents a manifest validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks whether frames of this run can be compared pixel by
// pixel with a run of the given size.
func (m *Manifest) IsCompatible(width, height int) error {
	if m.Width != width {
		return &CompatibilityError{
			Field:    "Width",
			Expected: fmt.Sprintf("%d", m.Width),
			Actual:   fmt.Sprintf("%d", width),
		}
	}
	if m.Height != height {
		return &CompatibilityError{
			Field:    "Height",
			Expected: fmt.Sprintf("%d", m.Height),
			Actual:   fmt.Sprintf("%d", height),
		}
	}
	return nil
}

// CompatibilityError represents a size mismatch between two runs.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
