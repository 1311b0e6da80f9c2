// Package scene is the animation loop glue: it requests the parallax layers,
// the music icons and the track from a host, then composites one frame per
// call once everything has loaded.
package scene

import (
	"image"
	"log/slog"

	"github.com/cwbudde/parallax/internal/host"
	"github.com/cwbudde/parallax/internal/input"
	"github.com/cwbudde/parallax/internal/raster"
)

// Status is the result of one Frame call.
type Status int

const (
	StatusRendered Status = 0 // A new frame is in the screen buffer
	StatusWaiting  Status = 1 // Assets are still loading; the buffer is untouched
)

func (s Status) String() string {
	switch s {
	case StatusRendered:
		return "rendered"
	case StatusWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// imageLoad tracks one requested image until it is ready.
type imageLoad struct {
	uri    string
	id     host.ImageHandle
	img    *raster.Image
	loaded bool
}

// Scene owns all per-run state of the animation.
type Scene struct {
	cfg  Config
	host host.Host
	size image.Point

	iconOff imageLoad
	iconOn  imageLoad
	layers  []imageLoad

	track        host.AudioHandle
	musicPlaying bool
	scroll       int
	edges        *input.Edges
}

// New creates a scene bound to h. Nothing is requested until Entry.
func New(h host.Host, cfg Config) *Scene {
	s := &Scene{
		cfg:     cfg,
		host:    h,
		iconOff: imageLoad{uri: cfg.IconOff, id: host.InvalidHandle},
		iconOn:  imageLoad{uri: cfg.IconOn, id: host.InvalidHandle},
		layers:  make([]imageLoad, len(cfg.Layers)),
		track:   host.InvalidHandle,
	}
	for i, uri := range cfg.Layers {
		s.layers[i] = imageLoad{uri: uri, id: host.InvalidHandle}
	}
	return s
}

// Entry records the screen size, requests every asset and sets the music
// volume.
func (s *Scene) Entry(w, h int) bool {
	s.size = image.Pt(w, h)

	s.iconOff.id = s.host.RequestImage(s.iconOff.uri)
	s.iconOn.id = s.host.RequestImage(s.iconOn.uri)
	for i := range s.layers {
		s.layers[i].id = s.host.RequestImage(s.layers[i].uri)
	}

	s.edges = input.NewEdges(len(s.host.Buttons()))

	if s.cfg.Music != "" {
		s.track = s.host.RequestAudio(s.cfg.Music)
		s.host.SetVolume(s.track, s.cfg.Volume)
	}

	slog.Info("Scene entered", "width", w, "height", h, "layers", len(s.layers))
	return true
}

// loaded polls an image once; it fetches the decoded image on the first
// ready poll and caches it.
func (s *Scene) loaded(l *imageLoad) bool {
	if l.loaded {
		return true
	}
	if l.id == host.InvalidHandle || !s.host.ImageReady(l.id) {
		slog.Debug("Waiting on image", "uri", l.uri)
		return false
	}

	l.img = s.host.Image(l.id)
	l.loaded = true
	slog.Debug("Image ready", "uri", l.uri, "width", l.img.Width, "height", l.img.Height)
	return true
}

func (s *Scene) ready() bool {
	if !s.loaded(&s.iconOff) || !s.loaded(&s.iconOn) {
		return false
	}
	for i := range s.layers {
		if !s.loaded(&s.layers[i]) {
			return false
		}
	}
	return true
}

// Frame advances the animation by one step and composites it into the
// host's screen. It returns StatusWaiting without touching the screen while
// any image is still loading.
func (s *Scene) Frame() Status {
	if s.edges == nil || !s.ready() {
		return StatusWaiting
	}

	buttons := s.host.Buttons()
	if s.edges.Pressed(buttons, input.ButtonLeft) {
		s.toggleMusic()
	}

	screen := s.host.Screen()
	raster.Clear(screen, s.cfg.Background)

	w, h := s.size.X, s.size.Y
	up := s.cfg.Upscale
	for i := range s.layers {
		img := s.layers[i].img
		amount := (s.scroll / 2) * i
		tileW := img.Width * up
		period := w + tileW
		if period <= 0 {
			continue
		}
		for j := 0; j < s.cfg.Tiles; j++ {
			x := w - (amount+tileW*j)%period
			raster.DrawSprite(screen, img, image.Pt(x, h-img.Height*up), up)
		}
	}

	s.drawIcon(screen)

	s.scroll++
	s.edges.Latch(buttons)
	return StatusRendered
}

func (s *Scene) toggleMusic() {
	s.musicPlaying = !s.musicPlaying
	if s.track == host.InvalidHandle {
		return
	}
	if s.musicPlaying {
		s.host.Play(s.track, true)
	} else {
		s.host.Pause(s.track)
	}
	slog.Info("Music toggled", "playing", s.musicPlaying)
}

// IconBounds returns where the music icon is drawn in the current state.
// It is empty until the icons have loaded.
func (s *Scene) IconBounds() image.Rectangle {
	icon := s.icon()
	if icon == nil {
		return image.Rectangle{}
	}
	return image.Rect(s.size.X-icon.Width, 0, s.size.X, icon.Height)
}

func (s *Scene) icon() *raster.Image {
	if s.musicPlaying {
		return s.iconOn.img
	}
	return s.iconOff.img
}

func (s *Scene) drawIcon(screen *raster.Surface) {
	r := s.IconBounds()
	raster.DrawSprite(screen, s.icon(), r.Min, 1)

	if !s.host.Cursor().In(r) {
		return
	}
	raster.FillRect(screen, r, s.cfg.HoverColor)
	raster.DrawRect(screen, r.Min.X, r.Min.Y, r.Dx(), r.Dy(), s.cfg.OutlineColor)
}

// MusicPlaying reports the current toggle state.
func (s *Scene) MusicPlaying() bool { return s.musicPlaying }

// Scroll returns the number of frames rendered so far.
func (s *Scene) Scroll() int { return s.scroll }

// Size returns the screen size passed to Entry.
func (s *Scene) Size() image.Point { return s.size }
