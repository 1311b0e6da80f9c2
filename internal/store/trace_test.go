package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTraceWriter_WriteAndRead(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "run-trace"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	entries := []TraceEntry{
		{Frame: 0, Status: "waiting", Timestamp: time.Now()},
		{Frame: 1, Status: "rendered", Scroll: 1, Duration: 120 * time.Microsecond, Timestamp: time.Now()},
		{Frame: 2, Status: "rendered", Scroll: 2, MusicPlaying: true, Clicked: true, Timestamp: time.Now()},
	}
	for _, entry := range entries {
		if err := writer.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	tracePath := filepath.Join(tmpDir, "renders", runID, "trace.jsonl")
	if writer.Path() != tracePath {
		t.Errorf("Path = %q, want %q", writer.Path(), tracePath)
	}
	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		t.Fatalf("Trace file not created: %s", tracePath)
	}

	readEntries, err := ReadTrace(tmpDir, runID)
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(readEntries) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(readEntries))
	}

	for i, entry := range readEntries {
		want := entries[i]
		if entry.Frame != want.Frame || entry.Status != want.Status || entry.Scroll != want.Scroll {
			t.Errorf("Entry %d: got %+v, want %+v", i, entry, want)
		}
		if entry.MusicPlaying != want.MusicPlaying || entry.Clicked != want.Clicked {
			t.Errorf("Entry %d: flags got %+v, want %+v", i, entry, want)
		}
		if entry.Duration != want.Duration {
			t.Errorf("Entry %d: duration %v, want %v", i, entry.Duration, want.Duration)
		}
	}
}

func TestTraceWriter_Append(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "run-append"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	if err := writer.Write(TraceEntry{Frame: 0, Status: "rendered", Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	writer.Close()

	writer, err = NewTraceWriter(tmpDir, runID, true)
	if err != nil {
		t.Fatalf("Failed to create trace writer in append mode: %v", err)
	}
	if err := writer.Write(TraceEntry{Frame: 1, Status: "rendered", Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	writer.Close()

	entries, err := ReadTrace(tmpDir, runID)
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Frame != 0 || entries[1].Frame != 1 {
		t.Errorf("Unexpected order: %+v", entries)
	}
}

func TestTraceWriter_TruncatesWithoutAppend(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "run-truncate"

	for i := 0; i < 2; i++ {
		writer, err := NewTraceWriter(tmpDir, runID, false)
		if err != nil {
			t.Fatal(err)
		}
		writer.Write(TraceEntry{Frame: 0, Timestamp: time.Now()})
		writer.Close()
	}

	entries, err := ReadTrace(tmpDir, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestTraceWriter_Flush(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "run-flush"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	defer writer.Close()

	if err := writer.Write(TraceEntry{Frame: 7, Status: "rendered", Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	data, err := os.ReadFile(writer.Path())
	if err != nil {
		t.Fatalf("Failed to read trace file: %v", err)
	}
	if !strings.Contains(string(data), `"frame":7`) {
		t.Errorf("Flushed data missing entry: %s", data)
	}
}

func TestTraceReader_ReadIteratively(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "run-iter"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := writer.Write(TraceEntry{Frame: i, Scroll: i, Timestamp: time.Now()}); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	writer.Close()

	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		entry, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read entry: %v", err)
		}
		if entry.Frame != count {
			t.Errorf("Expected frame %d, got %d", count, entry.Frame)
		}
		count++
	}
	if count != 5 {
		t.Errorf("Expected 5 entries, got %d", count)
	}
}

func TestTraceReader_NotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := ReadTrace(t.TempDir(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from ReadTrace, got %v", err)
	}
}

func TestTraceReader_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	dir := RenderDir(tmpDir, "bad")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "trace.jsonl"), []byte("{\"frame\":0}\nnot json\n"), 0644)

	if _, err := ReadTrace(tmpDir, "bad"); err == nil {
		t.Error("Expected error for malformed line")
	}
}

func TestDeleteTrace(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "run-delete-trace"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	writer.Write(TraceEntry{Frame: 0, Timestamp: time.Now()})
	writer.Close()

	if err := DeleteTrace(tmpDir, runID); err != nil {
		t.Fatalf("Failed to delete trace: %v", err)
	}
	if _, err := os.Stat(writer.Path()); !os.IsNotExist(err) {
		t.Error("Trace file still exists after delete")
	}

	// Deleting again is not an error
	if err := DeleteTrace(tmpDir, runID); err != nil {
		t.Errorf("DeleteTrace should not error for nonexistent file, got: %v", err)
	}
}

func TestTraceWriter_ConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "run-concurrent-trace"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	defer writer.Close()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(frame int) {
			if err := writer.Write(TraceEntry{Frame: frame, Timestamp: time.Now()}); err != nil {
				t.Errorf("Concurrent write failed: %v", err)
			}
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	writer.Flush()

	entries, err := ReadTrace(tmpDir, runID)
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(entries))
	}
}
