// Package assets loads and decodes image and audio files in the background
// so a frame loop can poll for readiness without blocking.
package assets

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	// Registered decoders
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/cwbudde/parallax/internal/host"
	"github.com/cwbudde/parallax/internal/raster"
)

// State is the lifecycle of one requested asset.
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type imageEntry struct {
	uri   string
	state State
	img   *raster.Image
	err   error
}

type audioEntry struct {
	uri   string
	state State
	data  []byte
	err   error
}

// Loader reads assets from an fs.FS on background goroutines.
//
// A failed load is logged once and the handle stays not-ready forever; the
// caller keeps polling and simply never gets the asset.
type Loader struct {
	fsys fs.FS

	mu     sync.Mutex
	images []*imageEntry
	audio  []*audioEntry
	wg     sync.WaitGroup
}

// NewLoader creates a loader rooted at fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// cleanURI turns a host-style URI ("./image/bg.png") into an fs.FS path.
func cleanURI(uri string) string {
	return path.Clean(strings.TrimPrefix(uri, "./"))
}

// RequestImage starts decoding uri and returns its handle immediately.
func (l *Loader) RequestImage(uri string) host.ImageHandle {
	e := &imageEntry{uri: uri}

	l.mu.Lock()
	h := host.ImageHandle(len(l.images))
	l.images = append(l.images, e)
	l.mu.Unlock()

	slog.Debug("Image requested", "uri", uri, "handle", h)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img, err := l.decodeImage(uri)

		l.mu.Lock()
		defer l.mu.Unlock()
		if err != nil {
			e.state, e.err = StateFailed, err
			slog.Error("Image load failed", "uri", uri, "error", err)
			return
		}
		e.state, e.img = StateReady, img
	}()

	return h
}

func (l *Loader) decodeImage(uri string) (*raster.Image, error) {
	f, err := l.fsys.Open(cleanURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", uri, err)
	}

	slog.Debug("Image decoded", "uri", uri, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return raster.ImageFrom(img), nil
}

// ImageReady reports whether h finished decoding successfully.
func (l *Loader) ImageReady(h host.ImageHandle) bool {
	return l.ImageState(h) == StateReady
}

// ImageState returns the lifecycle state of h. Unknown handles are failed.
func (l *Loader) ImageState(h host.ImageHandle) State {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h < 0 || int(h) >= len(l.images) {
		return StateFailed
	}
	return l.images[h].state
}

// Image returns the decoded image for h, or nil when it is not ready.
func (l *Loader) Image(h host.ImageHandle) *raster.Image {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h < 0 || int(h) >= len(l.images) {
		return nil
	}
	return l.images[h].img
}

// RequestAudio starts reading the raw bytes of uri.
func (l *Loader) RequestAudio(uri string) host.AudioHandle {
	e := &audioEntry{uri: uri}

	l.mu.Lock()
	h := host.AudioHandle(len(l.audio))
	l.audio = append(l.audio, e)
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		data, err := fs.ReadFile(l.fsys, cleanURI(uri))

		l.mu.Lock()
		defer l.mu.Unlock()
		if err != nil {
			e.state, e.err = StateFailed, fmt.Errorf("failed to read audio: %w", err)
			slog.Error("Audio load failed", "uri", uri, "error", err)
			return
		}
		e.state, e.data = StateReady, data
	}()

	return h
}

// AudioReady reports whether h's bytes are available.
func (l *Loader) AudioReady(h host.AudioHandle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h < 0 || int(h) >= len(l.audio) {
		return false
	}
	return l.audio[h].state == StateReady
}

// AudioData returns the raw bytes of h, or nil when they are not ready.
func (l *Loader) AudioData(h host.AudioHandle) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h < 0 || int(h) >= len(l.audio) {
		return nil
	}
	return l.audio[h].data
}

// AudioURI returns the URI h was requested with.
func (l *Loader) AudioURI(h host.AudioHandle) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h < 0 || int(h) >= len(l.audio) {
		return ""
	}
	return l.audio[h].uri
}

// Err returns the load error of image h, if any.
func (l *Loader) Err(h host.ImageHandle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h < 0 || int(h) >= len(l.images) {
		return fmt.Errorf("unknown image handle %d", h)
	}
	return l.images[h].err
}

// Wait blocks until every request issued so far has settled or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
