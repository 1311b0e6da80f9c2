package headless

import (
	"log/slog"
	"sync"

	"github.com/cwbudde/parallax/internal/assets"
	"github.com/cwbudde/parallax/internal/host"
)

// AudioOp names a recorded audio call.
type AudioOp string

const (
	OpRequest AudioOp = "request"
	OpPlay    AudioOp = "play"
	OpPause   AudioOp = "pause"
	OpVolume  AudioOp = "volume"
)

// AudioEvent is one call made against an AudioLog.
type AudioEvent struct {
	Op     AudioOp
	Handle host.AudioHandle
	URI    string
	Loop   bool
	Level  float64
}

// AudioLog implements host.Audio without producing sound. Track bytes are
// still loaded so a missing file shows up in the log, and every call is
// recorded for later inspection.
type AudioLog struct {
	loader *assets.Loader

	mu      sync.Mutex
	events  []AudioEvent
	playing map[host.AudioHandle]bool
	volume  map[host.AudioHandle]float64
}

// NewAudioLog records audio calls, loading track bytes through loader.
func NewAudioLog(loader *assets.Loader) *AudioLog {
	return &AudioLog{
		loader:  loader,
		playing: make(map[host.AudioHandle]bool),
		volume:  make(map[host.AudioHandle]float64),
	}
}

func (a *AudioLog) record(ev AudioEvent) {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()

	slog.Debug("Audio call", "op", string(ev.Op), "handle", ev.Handle,
		"loop", ev.Loop, "level", ev.Level)
}

// RequestAudio starts loading uri and returns its handle.
func (a *AudioLog) RequestAudio(uri string) host.AudioHandle {
	h := a.loader.RequestAudio(uri)
	a.record(AudioEvent{Op: OpRequest, Handle: h, URI: uri})
	return h
}

// Play marks h as playing.
func (a *AudioLog) Play(h host.AudioHandle, loop bool) {
	a.mu.Lock()
	a.playing[h] = true
	a.mu.Unlock()
	a.record(AudioEvent{Op: OpPlay, Handle: h, Loop: loop})
}

// Pause marks h as stopped.
func (a *AudioLog) Pause(h host.AudioHandle) {
	a.mu.Lock()
	a.playing[h] = false
	a.mu.Unlock()
	a.record(AudioEvent{Op: OpPause, Handle: h})
}

// SetVolume remembers the level for h.
func (a *AudioLog) SetVolume(h host.AudioHandle, level float64) {
	a.mu.Lock()
	a.volume[h] = level
	a.mu.Unlock()
	a.record(AudioEvent{Op: OpVolume, Handle: h, Level: level})
}

// Playing reports whether the last call on h was Play.
func (a *AudioLog) Playing(h host.AudioHandle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing[h]
}

// Volume returns the last level set for h, or 1 when none was set.
func (a *AudioLog) Volume(h host.AudioHandle) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.volume[h]; ok {
		return v
	}
	return 1
}

// Events returns a copy of every recorded call, oldest first.
func (a *AudioLog) Events() []AudioEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AudioEvent, len(a.events))
	copy(out, a.events)
	return out
}
