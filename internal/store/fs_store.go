package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cwbudde/parallax/internal/raster"
)

const (
	manifestFile = "manifest.json"
	framePrefix  = "frame_"
	frameSuffix  = ".png"
)

// frameName returns the file name of frame index, e.g. frame_0007.png.
func frameName(index int) string {
	return fmt.Sprintf("%s%04d%s", framePrefix, index, frameSuffix)
}

// parseFrameName is the inverse of frameName.
func parseFrameName(name string) (int, bool) {
	if !strings.HasPrefix(name, framePrefix) || !strings.HasSuffix(name, frameSuffix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, framePrefix), frameSuffix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FSStore implements Store on the local filesystem.
// Runs are stored in a directory structure: <baseDir>/renders/<runID>/
//
// Writes go to a temporary file that is renamed into place, so readers
// never observe a partially written manifest or frame.
type FSStore struct {
	baseDir string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates a filesystem store rooted at baseDir, creating it if
// needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// BaseDir returns the root directory of the store.
func (s *FSStore) BaseDir() string {
	return s.baseDir
}

func (s *FSStore) runDir(runID string) string {
	return RenderDir(s.baseDir, runID)
}

func (s *FSStore) manifestPath(runID string) string {
	return filepath.Join(s.runDir(runID), manifestFile)
}

func (s *FSStore) framePath(runID string, index int) string {
	return filepath.Join(s.runDir(runID), frameName(index))
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// SaveManifest atomically saves the manifest of a run.
func (s *FSStore) SaveManifest(runID string, m *Manifest) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}
	if m == nil {
		return fmt.Errorf("manifest cannot be nil")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}

	path := s.manifestPath(runID)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}

	slog.Debug("Manifest saved", "runID", runID, "path", path)
	return nil
}

// LoadManifest reads the manifest of a run.
func (s *FSStore) LoadManifest(runID string) (*Manifest, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}

	path := s.manifestPath(runID)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{RunID: runID, Frame: -1}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to deserialize manifest: %w", err)
	}

	slog.Debug("Manifest loaded", "runID", runID, "path", path)
	return &m, nil
}

// SaveFrame atomically writes a frame snapshot as PNG.
func (s *FSStore) SaveFrame(runID string, index int, frame *raster.Surface) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}
	if index < 0 {
		return fmt.Errorf("frame index cannot be negative: %d", index)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.NRGBA()); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	path := s.framePath(runID, index)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save frame %d: %w", index, err)
	}

	slog.Debug("Frame saved", "runID", runID, "frame", index, "bytes", buf.Len())
	return nil
}

// LoadFrame decodes a stored frame.
func (s *FSStore) LoadFrame(runID string, index int) (*raster.Surface, error) {
	f, err := os.Open(s.framePath(runID, index))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{RunID: runID, Frame: index}
	} else if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %d: %w", index, err)
	}

	pix := raster.ImageFrom(img)
	return raster.Wrap(pix.Pix, pix.Width, pix.Height), nil
}

// ListFrames returns the frame indices stored for a run.
func (s *FSStore) ListFrames(runID string) ([]int, error) {
	entries, err := os.ReadDir(s.runDir(runID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{RunID: runID, Frame: -1}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read run directory: %w", err)
	}

	var frames []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := parseFrameName(e.Name()); ok {
			frames = append(frames, n)
		}
	}
	slices.Sort(frames)
	return frames, nil
}

// ListRenders returns metadata for all runs with a readable manifest.
func (s *FSStore) ListRenders() ([]RenderInfo, error) {
	rendersDir := filepath.Join(s.baseDir, "renders")

	entries, err := os.ReadDir(rendersDir)
	if errors.Is(err, os.ErrNotExist) {
		return []RenderInfo{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read renders directory: %w", err)
	}

	infos := []RenderInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		runID := entry.Name()
		m, err := s.LoadManifest(runID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			slog.Warn("Failed to load manifest for listing", "runID", runID, "error", err)
			continue
		}
		infos = append(infos, m.ToInfo())
	}

	slog.Debug("Listed renders", "count", len(infos))
	return infos, nil
}

// DeleteRender removes a run and all its artifacts.
func (s *FSStore) DeleteRender(runID string) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	dir := s.runDir(runID)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return &NotFoundError{RunID: runID, Frame: -1}
	} else if err != nil {
		return fmt.Errorf("failed to stat run directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove run directory: %w", err)
	}

	slog.Debug("Render deleted", "runID", runID, "path", dir)
	return nil
}

// RunSize returns the total size in bytes of a run directory.
func (s *FSStore) RunSize(runID string) (int64, error) {
	var size int64
	err := filepath.WalkDir(s.runDir(runID), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to size run %s: %w", runID, err)
	}
	return size, nil
}

