package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/parallax/internal/blend"
	"github.com/cwbudde/parallax/internal/host/headless"
	"github.com/cwbudde/parallax/internal/input"
	"github.com/cwbudde/parallax/internal/raster"
	"github.com/cwbudde/parallax/internal/scene"
	"github.com/cwbudde/parallax/internal/store"
)

var (
	renderScene     sceneFlags
	renderFrames    int
	renderClicks    []int
	renderCursor    []int
	renderSaveEvery int
	renderOut       string
	renderDataDir   string
	renderCompare   string
	renderWait      time.Duration
)

// errFramesDiffer is returned when --compare finds a differing frame.
var errFramesDiffer = errors.New("frames differ from baseline")

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render frames headlessly to disk",
	Long: `Runs the animation without a window for a fixed number of frames, with
scripted clicks, and stores the result under <data-dir>/renders/<run-id>/:
manifest.json, frame_NNNN.png snapshots and a per-frame trace.jsonl.

With --compare the new frames are checked pixel by pixel against an earlier
run and the command fails when any stored frame differs.`,
	RunE: runRender,
}

func init() {
	renderScene.register(renderCmd, 320, 180)
	renderCmd.Flags().IntVar(&renderFrames, "frames", 120, "Number of frames to run")
	renderCmd.Flags().IntSliceVar(&renderClicks, "click", nil, "Frame indices at which the left button goes down (released the next frame)")
	renderCmd.Flags().IntSliceVar(&renderCursor, "cursor", []int{0, 0}, "Cursor position as x,y")
	renderCmd.Flags().IntVar(&renderSaveEvery, "save-every", 0, "Also store every Nth frame (0 = only the last)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Write the last frame to this PNG path")
	renderCmd.Flags().StringVar(&renderDataDir, "data-dir", "./data", "Base directory for render storage")
	renderCmd.Flags().StringVar(&renderCompare, "compare", "", "Run ID to compare the stored frames against")
	renderCmd.Flags().DurationVar(&renderWait, "wait", 10*time.Second, "How long to wait for assets before the first frame")

	rootCmd.AddCommand(renderCmd)
}

// renderOptions is everything a headless run needs.
type renderOptions struct {
	Width, Height int
	Frames        int
	Clicks        []int
	Cursor        image.Point
	SaveEvery     int
	Wait          time.Duration
	Assets        fs.FS
	AssetsDir     string
	Scene         scene.Config
}

// renderResult is a finished headless run.
type renderResult struct {
	Manifest *store.Manifest
	Final    *raster.Surface
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := renderScene.config()
	if err != nil {
		return err
	}
	fsys, err := renderScene.assetFS()
	if err != nil {
		return err
	}
	if len(renderCursor) != 2 {
		return fmt.Errorf("cursor needs x,y, got %v", renderCursor)
	}

	st, err := store.NewFSStore(renderDataDir)
	if err != nil {
		return fmt.Errorf("failed to create render store: %w", err)
	}

	res, err := renderRun(cmd.Context(), st, renderOptions{
		Width:     renderScene.width,
		Height:    renderScene.height,
		Frames:    renderFrames,
		Clicks:    renderClicks,
		Cursor:    image.Pt(renderCursor[0], renderCursor[1]),
		SaveEvery: renderSaveEvery,
		Wait:      renderWait,
		Assets:    fsys,
		AssetsDir: renderScene.assets,
		Scene:     cfg,
	})
	if err != nil {
		return err
	}
	m := res.Manifest

	if renderOut != "" {
		if err := writePNG(renderOut, res.Final); err != nil {
			return err
		}
	}

	fmt.Printf("Run %s: %d frames, %d rendered, backend %s\n", m.RunID, m.Frames, m.Rendered, m.Backend)

	if renderCompare != "" {
		return compareRuns(st, renderCompare, m.RunID)
	}
	return nil
}

// renderRun drives a headless scene and stores the run in st.
func renderRun(ctx context.Context, st *store.FSStore, opts renderOptions) (*renderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", opts.Frames)
	}

	h := headless.New(opts.Width, opts.Height, opts.Assets)
	s := scene.New(h, opts.Scene)
	s.Entry(opts.Width, opts.Height)
	h.SetCursor(opts.Cursor)

	waitCtx, cancel := context.WithTimeout(ctx, opts.Wait)
	err := h.WaitAssets(waitCtx)
	cancel()
	if err != nil {
		slog.Warn("Assets still loading, first frames may be waiting", "error", err)
	}

	runID := uuid.New().String()
	m := store.NewManifest(runID, opts.Width, opts.Height, blend.ActiveBackend.String(), store.RenderConfig{
		Assets:     opts.AssetsDir,
		Upscale:    opts.Scene.Upscale,
		Tiles:      opts.Scene.Tiles,
		Volume:     opts.Scene.Volume,
		Background: uint32(opts.Scene.Background),
		Clicks:     opts.Clicks,
	})

	tw, err := store.NewTraceWriter(st.BaseDir(), runID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace writer: %w", err)
	}
	defer tw.Close()

	clicks := make(map[int]bool, len(opts.Clicks))
	for _, c := range opts.Clicks {
		clicks[c] = true
	}

	slog.Info("Render started", "runID", runID, "frames", opts.Frames,
		"width", opts.Width, "height", opts.Height, "backend", m.Backend)

	for i := 0; i < opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render interrupted at frame %d: %w", i, err)
		}

		clicked := clicks[i]
		if clicked {
			h.Press(input.ButtonLeft)
		} else {
			h.Release(input.ButtonLeft)
		}

		start := time.Now()
		status := s.Frame()
		elapsed := time.Since(start)

		m.Frames++
		if status == scene.StatusRendered {
			m.Rendered++
		}

		if err := tw.Write(store.TraceEntry{
			Frame:        i,
			Status:       status.String(),
			MusicPlaying: s.MusicPlaying(),
			Scroll:       s.Scroll(),
			Duration:     elapsed,
			Clicked:      clicked,
			Timestamp:    time.Now(),
		}); err != nil {
			return nil, err
		}

		last := i == opts.Frames-1
		snapshot := opts.SaveEvery > 0 && i%opts.SaveEvery == 0
		if last || (snapshot && status == scene.StatusRendered) {
			if err := st.SaveFrame(runID, i, h.Screen()); err != nil {
				return nil, err
			}
		}
	}

	m.MusicPlaying = s.MusicPlaying()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if err := st.SaveManifest(runID, m); err != nil {
		return nil, err
	}

	slog.Info("Render complete", "runID", runID, "rendered", m.Rendered, "musicPlaying", m.MusicPlaying)
	return &renderResult{Manifest: m, Final: h.Screen()}, nil
}

// compareRuns diffs every frame stored for baseline against the same frame
// of current.
func compareRuns(st *store.FSStore, baseline, current string) error {
	base, err := st.LoadManifest(baseline)
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}
	cur, err := st.LoadManifest(current)
	if err != nil {
		return fmt.Errorf("failed to load current run: %w", err)
	}
	if err := base.IsCompatible(cur.Width, cur.Height); err != nil {
		return fmt.Errorf("cannot compare runs: %w", err)
	}

	frames, err := st.ListFrames(baseline)
	if err != nil {
		return fmt.Errorf("failed to list baseline frames: %w", err)
	}

	compared, differing := 0, 0
	for _, i := range frames {
		want, err := st.LoadFrame(baseline, i)
		if err != nil {
			return err
		}
		got, err := st.LoadFrame(current, i)
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("Frame missing from current run", "frame", i)
			continue
		} else if err != nil {
			return err
		}

		stats, err := raster.Diff(want, got)
		if err != nil {
			return err
		}
		compared++
		if !stats.Equal() {
			differing++
			fmt.Printf("frame %d: %d pixels differ (max delta %d, SAD %d)\n", i, stats.Pixels, stats.MaxDelta, stats.SAD)
		}
	}

	if compared == 0 {
		return fmt.Errorf("no common frames between %s and %s", baseline, current)
	}
	if differing > 0 {
		return fmt.Errorf("%w: %d of %d frames", errFramesDiffer, differing, compared)
	}

	fmt.Printf("All %d compared frames match %s\n", compared, baseline)
	return nil
}

func writePNG(path string, s *raster.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, s.NRGBA()); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	slog.Info("Wrote frame", "path", path)
	return nil
}
