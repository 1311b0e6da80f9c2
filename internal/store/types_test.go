package store

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestManifest_JSONFieldNames(t *testing.T) {
	m := createTestManifest("run-json")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, key := range []string{`"runId"`, `"width"`, `"rendered"`, `"backend"`, `"musicPlaying"`, `"config"`, `"background"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Serialized manifest missing %s: %s", key, data)
		}
	}
}

func TestManifest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Manifest)
		field  string
	}{
		{"valid", func(m *Manifest) {}, ""},
		{"empty run id", func(m *Manifest) { m.RunID = "" }, "RunID"},
		{"zero width", func(m *Manifest) { m.Width = 0 }, "Width"},
		{"negative height", func(m *Manifest) { m.Height = -1 }, "Height"},
		{"negative frames", func(m *Manifest) { m.Frames = -1; m.Rendered = 0 }, "Frames"},
		{"rendered above frames", func(m *Manifest) { m.Rendered = m.Frames + 1 }, "Rendered"},
		{"zero timestamp", func(m *Manifest) { m.Timestamp = time.Time{} }, "Timestamp"},
		{"zero upscale", func(m *Manifest) { m.Config.Upscale = 0 }, "Config.Upscale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := createTestManifest("run-validate")
			tt.mutate(m)

			err := m.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Expected valid manifest, got %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestManifest_IsCompatible(t *testing.T) {
	m := createTestManifest("run-compat")

	if err := m.IsCompatible(64, 32); err != nil {
		t.Errorf("Expected compatible, got %v", err)
	}

	err := m.IsCompatible(65, 32)
	var ce *CompatibilityError
	if !errors.As(err, &ce) || ce.Field != "Width" {
		t.Fatalf("Expected Width CompatibilityError, got %v", err)
	}
	if ce.Error() != "compatibility error: Width mismatch (expected 64, got 65)" {
		t.Errorf("Unexpected message: %q", ce.Error())
	}

	if err := m.IsCompatible(64, 1); !errors.As(err, &ce) || ce.Field != "Height" {
		t.Errorf("Expected Height CompatibilityError, got %v", err)
	}
}

func TestManifest_ToInfo(t *testing.T) {
	m := createTestManifest("run-info")
	info := m.ToInfo()

	if info.RunID != m.RunID || info.Width != m.Width || info.Height != m.Height {
		t.Errorf("Identity fields differ: %+v", info)
	}
	if info.Frames != m.Frames || info.Rendered != m.Rendered || info.Backend != m.Backend {
		t.Errorf("Counters differ: %+v", info)
	}
	if !info.Timestamp.Equal(m.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", info.Timestamp, m.Timestamp)
	}
}

func TestNewManifest(t *testing.T) {
	before := time.Now()
	m := NewManifest("run-new", 320, 180, "wide", RenderConfig{Upscale: 3, Tiles: 3})

	if m.RunID != "run-new" || m.Width != 320 || m.Height != 180 || m.Backend != "wide" {
		t.Errorf("Unexpected manifest: %+v", m)
	}
	if m.Timestamp.Before(before) {
		t.Errorf("Timestamp %v precedes creation", m.Timestamp)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Fresh manifest should validate: %v", err)
	}
}

func TestNotFoundError_Messages(t *testing.T) {
	tests := []struct {
		err  *NotFoundError
		want string
	}{
		{&NotFoundError{}, "render not found"},
		{&NotFoundError{RunID: "r", Frame: -1}, "render not found: r"},
		{&NotFoundError{RunID: "r", Frame: 4}, "frame not found: r/frame_0004.png"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if !errors.Is(tt.err, ErrNotFound) {
			t.Errorf("%v should match ErrNotFound", tt.err)
		}
	}
}
