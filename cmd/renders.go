package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/parallax/internal/scene"
	"github.com/cwbudde/parallax/internal/store"
)

var (
	rendersDataDir string
	keepLast       int
	olderThanDays  int
	forceClean     bool
)

var rendersCmd = &cobra.Command{
	Use:   "renders",
	Short: "Manage stored headless renders",
	Long: `Manage runs written by "parallax render", including listing, inspecting
and cleaning old runs.`,
}

var listRendersCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored renders",
	Long:  `Display all runs with run ID, timestamp, size, frame counts, backend and disk usage.`,
	RunE:  runListRenders,
}

var showRenderCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the manifest and trace summary of a render",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRender,
}

var cleanRendersCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old renders",
	Long: `Delete old renders based on retention policy.
You can keep only the N most recent runs or delete runs older than N days.`,
	RunE: runCleanRenders,
}

func init() {
	rootCmd.AddCommand(rendersCmd)

	rendersCmd.AddCommand(listRendersCmd)
	rendersCmd.AddCommand(showRenderCmd)
	rendersCmd.AddCommand(cleanRendersCmd)

	rendersCmd.PersistentFlags().StringVar(&rendersDataDir, "data-dir", "./data", "Base directory for render storage")

	cleanRendersCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the last N renders (0 = keep all)")
	cleanRendersCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete renders older than N days (0 = no age limit)")
	cleanRendersCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

func runListRenders(cmd *cobra.Command, args []string) error {
	st, err := store.NewFSStore(rendersDataDir)
	if err != nil {
		return fmt.Errorf("failed to create render store: %w", err)
	}

	infos, err := st.ListRenders()
	if err != nil {
		return fmt.Errorf("failed to list renders: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No renders found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tTIMESTAMP\tSIZE\tFRAMES\tRENDERED\tBACKEND\tDISK")
	fmt.Fprintln(w, "------\t---------\t----\t------\t--------\t-------\t----")

	for _, info := range infos {
		diskStr := "unknown"
		if size, err := st.RunSize(info.RunID); err == nil {
			diskStr = formatBytes(size)
		}

		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%s\t%s\n",
			shortID(info.RunID),
			info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Width, info.Height,
			info.Frames,
			info.Rendered,
			info.Backend,
			diskStr,
		)
	}

	w.Flush()

	fmt.Printf("\nTotal renders: %d\n", len(infos))
	return nil
}

func runShowRender(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := store.NewFSStore(rendersDataDir)
	if err != nil {
		return fmt.Errorf("failed to create render store: %w", err)
	}

	m, err := st.LoadManifest(runID)
	if err != nil {
		return err
	}
	frames, err := st.ListFrames(runID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Run ID:\t%s\n", m.RunID)
	fmt.Fprintf(w, "Timestamp:\t%s\n", m.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "Size:\t%dx%d\n", m.Width, m.Height)
	fmt.Fprintf(w, "Frames:\t%d (%d rendered)\n", m.Frames, m.Rendered)
	fmt.Fprintf(w, "Backend:\t%s\n", m.Backend)
	fmt.Fprintf(w, "Music playing:\t%t\n", m.MusicPlaying)
	fmt.Fprintf(w, "Assets:\t%s\n", m.Config.Assets)
	fmt.Fprintf(w, "Upscale / tiles:\t%d / %d\n", m.Config.Upscale, m.Config.Tiles)
	fmt.Fprintf(w, "Clicks:\t%v\n", m.Config.Clicks)
	fmt.Fprintf(w, "Stored frames:\t%v\n", frames)

	entries, err := store.ReadTrace(rendersDataDir, runID)
	if err != nil {
		slog.Warn("No trace for render", "runID", runID, "error", err)
	} else {
		s := summarizeTrace(entries)
		fmt.Fprintf(w, "Trace entries:\t%d\n", s.Entries)
		fmt.Fprintf(w, "Waiting frames:\t%d\n", s.Waiting)
		fmt.Fprintf(w, "Music toggles:\t%d\n", s.Toggles)
		fmt.Fprintf(w, "Mean frame time:\t%s\n", s.Mean)
		fmt.Fprintf(w, "Max frame time:\t%s\n", s.Max)
	}
	return w.Flush()
}

// traceSummary aggregates a run's trace.
type traceSummary struct {
	Entries int
	Waiting int
	Toggles int
	Mean    time.Duration
	Max     time.Duration
}

func summarizeTrace(entries []store.TraceEntry) traceSummary {
	var s traceSummary
	var total time.Duration
	playing := false
	for _, e := range entries {
		s.Entries++
		if e.Status != scene.StatusRendered.String() {
			s.Waiting++
		}
		if e.MusicPlaying != playing {
			s.Toggles++
			playing = e.MusicPlaying
		}
		total += e.Duration
		s.Max = max(s.Max, e.Duration)
	}
	if s.Entries > 0 {
		s.Mean = total / time.Duration(s.Entries)
	}
	return s
}

func runCleanRenders(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	st, err := store.NewFSStore(rendersDataDir)
	if err != nil {
		return fmt.Errorf("failed to create render store: %w", err)
	}

	infos, err := st.ListRenders()
	if err != nil {
		return fmt.Errorf("failed to list renders: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No renders to clean.")
		return nil
	}

	toDelete := selectRendersForDeletion(infos, keepLast, olderThanDays)

	if len(toDelete) == 0 {
		fmt.Println("No renders match deletion criteria.")
		return nil
	}

	fmt.Printf("Found %d render(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Printf("  - %s (%d frames, %s)\n",
			shortID(info.RunID),
			info.Frames,
			info.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	if !forceClean {
		fmt.Print("\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted := 0
	failed := 0
	for _, info := range toDelete {
		if err := st.DeleteRender(info.RunID); err != nil {
			slog.Error("Failed to delete render", "runID", info.RunID, "error", err)
			failed++
		} else {
			slog.Info("Deleted render", "runID", info.RunID)
			deleted++
		}
	}

	fmt.Printf("\nDeleted %d render(s), %d failed.\n", deleted, failed)
	return nil
}

// selectRendersForDeletion applies the retention policy. A run is selected
// when it is older than olderThanDays or falls outside the keepLast newest
// runs. Each run appears at most once.
func selectRendersForDeletion(infos []store.RenderInfo, keepLast int, olderThanDays int) []store.RenderInfo {
	var toDelete []store.RenderInfo
	selected := make(map[string]bool)

	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays)
		for _, info := range infos {
			if info.Timestamp.Before(cutoff) {
				toDelete = append(toDelete, info)
				selected[info.RunID] = true
			}
		}
	}

	if keepLast > 0 && len(infos) > keepLast {
		// Oldest first
		sorted := slices.Clone(infos)
		slices.SortFunc(sorted, func(a, b store.RenderInfo) int {
			return a.Timestamp.Compare(b.Timestamp)
		})

		for _, info := range sorted[:len(sorted)-keepLast] {
			if !selected[info.RunID] {
				toDelete = append(toDelete, info)
				selected[info.RunID] = true
			}
		}
	}

	return toDelete
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
