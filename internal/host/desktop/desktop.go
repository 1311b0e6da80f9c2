//go:build !headless

package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cwbudde/parallax/internal/assets"
	"github.com/cwbudde/parallax/internal/host"
	"github.com/cwbudde/parallax/internal/input"
	"github.com/cwbudde/parallax/internal/raster"
	"github.com/cwbudde/parallax/internal/scene"
)

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyEscape:       input.KeyEscape,
	ebiten.KeyDigit0:       input.KeyDigit0,
	ebiten.KeyDigit1:       input.KeyDigit1,
	ebiten.KeyDigit2:       input.KeyDigit2,
	ebiten.KeyDigit3:       input.KeyDigit3,
	ebiten.KeyDigit4:       input.KeyDigit4,
	ebiten.KeyDigit5:       input.KeyDigit5,
	ebiten.KeyDigit6:       input.KeyDigit6,
	ebiten.KeyDigit7:       input.KeyDigit7,
	ebiten.KeyDigit8:       input.KeyDigit8,
	ebiten.KeyDigit9:       input.KeyDigit9,
	ebiten.KeyMinus:        input.KeyMinus,
	ebiten.KeyEqual:        input.KeyEqual,
	ebiten.KeyBackspace:    input.KeyBackspace,
	ebiten.KeyTab:          input.KeyTab,
	ebiten.KeyQ:            input.KeyQ,
	ebiten.KeyW:            input.KeyW,
	ebiten.KeyE:            input.KeyE,
	ebiten.KeyR:            input.KeyR,
	ebiten.KeyT:            input.KeyT,
	ebiten.KeyY:            input.KeyY,
	ebiten.KeyU:            input.KeyU,
	ebiten.KeyI:            input.KeyI,
	ebiten.KeyO:            input.KeyO,
	ebiten.KeyP:            input.KeyP,
	ebiten.KeyBracketLeft:  input.KeyBracketLeft,
	ebiten.KeyBracketRight: input.KeyBracketRight,
	ebiten.KeyEnter:        input.KeyEnter,
	ebiten.KeyControlLeft:  input.KeyControlLeft,
	ebiten.KeyA:            input.KeyA,
	ebiten.KeyS:            input.KeyS,
	ebiten.KeyD:            input.KeyD,
	ebiten.KeyF:            input.KeyF,
	ebiten.KeyG:            input.KeyG,
	ebiten.KeyH:            input.KeyH,
	ebiten.KeyJ:            input.KeyJ,
	ebiten.KeyK:            input.KeyK,
	ebiten.KeyL:            input.KeyL,
	ebiten.KeySemicolon:    input.KeySemicolon,
	ebiten.KeyQuote:        input.KeyQuote,
	ebiten.KeyBackquote:    input.KeyBackquote,
	ebiten.KeyShiftLeft:    input.KeyShiftLeft,
	ebiten.KeyBackslash:    input.KeyBackslash,
	ebiten.KeyZ:            input.KeyZ,
	ebiten.KeyX:            input.KeyX,
	ebiten.KeyC:            input.KeyC,
	ebiten.KeyV:            input.KeyV,
	ebiten.KeyB:            input.KeyB,
	ebiten.KeyN:            input.KeyN,
	ebiten.KeyM:            input.KeyM,
	ebiten.KeyComma:        input.KeyComma,
	ebiten.KeyPeriod:       input.KeyPeriod,
	ebiten.KeySlash:        input.KeySlash,
	ebiten.KeyShiftRight:   input.KeyShiftRight,
	ebiten.KeyAltLeft:      input.KeyAltLeft,
	ebiten.KeySpace:        input.KeySpace,
	ebiten.KeyCapsLock:     input.KeyCapsLock,
	ebiten.KeyF1:           input.KeyF1,
	ebiten.KeyF2:           input.KeyF2,
	ebiten.KeyF3:           input.KeyF3,
	ebiten.KeyF4:           input.KeyF4,
	ebiten.KeyF5:           input.KeyF5,
	ebiten.KeyF6:           input.KeyF6,
	ebiten.KeyF7:           input.KeyF7,
	ebiten.KeyF8:           input.KeyF8,
	ebiten.KeyF9:           input.KeyF9,
	ebiten.KeyF10:          input.KeyF10,
	ebiten.KeyF11:          input.KeyF11,
	ebiten.KeyF12:          input.KeyF12,
	ebiten.KeyPause:        input.KeyPause,
	ebiten.KeyScrollLock:   input.KeyScrollLock,
	ebiten.KeyNumpadEnter:  input.KeyNumpadEnter,
	ebiten.KeyControlRight: input.KeyControlRight,
	ebiten.KeyPrintScreen:  input.KeyPrintScreen,
	ebiten.KeyAltRight:     input.KeyAltRight,
	ebiten.KeyNumLock:      input.KeyNumLock,
	ebiten.KeyHome:         input.KeyHome,
	ebiten.KeyArrowUp:      input.KeyArrowUp,
	ebiten.KeyPageUp:       input.KeyPageUp,
	ebiten.KeyArrowLeft:    input.KeyArrowLeft,
	ebiten.KeyArrowRight:   input.KeyArrowRight,
	ebiten.KeyEnd:          input.KeyEnd,
	ebiten.KeyArrowDown:    input.KeyArrowDown,
	ebiten.KeyPageDown:     input.KeyPageDown,
	ebiten.KeyInsert:       input.KeyInsert,
	ebiten.KeyDelete:       input.KeyDelete,
	ebiten.KeyMetaLeft:     input.KeyMetaLeft,
	ebiten.KeyMetaRight:    input.KeyMetaRight,
	ebiten.KeyContextMenu:  input.KeyContextMenu,
}

var buttonMap = [...]struct {
	eb ebiten.MouseButton
	b  int
}{
	{ebiten.MouseButtonLeft, input.ButtonLeft},
	{ebiten.MouseButtonMiddle, input.ButtonMiddle},
	{ebiten.MouseButtonRight, input.ButtonRight},
}

type track struct {
	player *audio.Player
	loop   bool
}

// Host implements host.Host on top of an ebiten window.
type Host struct {
	screen *raster.Surface
	loader *assets.Loader
	input  *input.State

	audioCtx *audio.Context
	mu       sync.Mutex
	tracks   map[host.AudioHandle]*track
	volume   map[host.AudioHandle]float64

	pressed []ebiten.Key
}

var _ host.Host = (*Host)(nil)

func newHost(opts Options) *Host {
	return &Host{
		screen:   raster.NewSurface(opts.Width, opts.Height),
		loader:   assets.NewLoader(opts.Assets),
		input:    input.NewState(),
		audioCtx: audio.NewContext(opts.SampleRate),
		tracks:   make(map[host.AudioHandle]*track),
		volume:   make(map[host.AudioHandle]float64),
	}
}

func (h *Host) Screen() *raster.Surface { return h.screen }

func (h *Host) RequestImage(uri string) host.ImageHandle {
	return h.loader.RequestImage(uri)
}

func (h *Host) ImageReady(img host.ImageHandle) bool { return h.loader.ImageReady(img) }

func (h *Host) Image(img host.ImageHandle) *raster.Image { return h.loader.Image(img) }

func (h *Host) Cursor() image.Point { return h.input.Cursor }

func (h *Host) Keys() []bool { return h.input.Keys }

func (h *Host) Buttons() []bool { return h.input.Buttons }

// RequestAudio starts reading the track bytes. The decoder is built on the
// first Play.
func (h *Host) RequestAudio(uri string) host.AudioHandle {
	return h.loader.RequestAudio(uri)
}

// Play starts or resumes a track. A track still loading is skipped with a
// warning.
func (h *Host) Play(a host.AudioHandle, loop bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.tracks[a]
	if !ok {
		var err error
		t, err = h.openTrack(a, loop)
		if err != nil {
			slog.Warn("Cannot play track", "handle", a, "uri", h.loader.AudioURI(a), "error", err)
			return
		}
		h.tracks[a] = t
	}

	if !t.loop && !t.player.IsPlaying() {
		if err := t.player.SetPosition(0); err != nil {
			slog.Warn("Rewind failed", "handle", a, "error", err)
		}
	}
	t.player.Play()
}

func (h *Host) openTrack(a host.AudioHandle, loop bool) (*track, error) {
	if !h.loader.AudioReady(a) {
		return nil, errors.New("track not loaded")
	}

	stream, err := wav.DecodeWithSampleRate(h.audioCtx.SampleRate(), bytes.NewReader(h.loader.AudioData(a)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav: %w", err)
	}

	var player *audio.Player
	if loop {
		player, err = h.audioCtx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	} else {
		player, err = h.audioCtx.NewPlayer(stream)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if v, ok := h.volume[a]; ok {
		player.SetVolume(v)
	}
	return &track{player: player, loop: loop}, nil
}

func (h *Host) Pause(a host.AudioHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.tracks[a]; ok {
		t.player.Pause()
	}
}

// SetVolume applies now when the track is open and otherwise on first Play.
func (h *Host) SetVolume(a host.AudioHandle, level float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume[a] = level
	if t, ok := h.tracks[a]; ok {
		t.player.SetVolume(level)
	}
}

// pollInput copies ebiten's input state into the scene's buffers.
func (h *Host) pollInput() {
	x, y := ebiten.CursorPosition()
	h.input.Cursor = image.Pt(x, y)

	for _, m := range buttonMap {
		h.input.SetButton(m.b, ebiten.IsMouseButtonPressed(m.eb))
	}

	clear(h.input.Keys)
	h.pressed = inpututil.AppendPressedKeys(h.pressed[:0])
	for _, k := range h.pressed {
		if code, ok := keyMap[k]; ok {
			h.input.SetKey(code, true)
		}
	}
}

type game struct {
	ctx    context.Context
	host   *Host
	scene  *scene.Scene
	pixels []byte

	fullscreen bool
	status     scene.Status
}

func (g *game) Update() error {
	if g.ctx.Err() != nil || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		g.fullscreen = !g.fullscreen
		ebiten.SetFullscreen(g.fullscreen)
	}

	g.host.pollInput()
	status := g.scene.Frame()
	if status != g.status {
		slog.Debug("Frame status changed", "status", status.String())
		g.status = status
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.pixels = g.host.screen.Bytes(g.pixels)
	screen.WritePixels(g.pixels)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.host.screen.Width, g.host.screen.Height
}

// Run opens a window and drives the scene until the window closes or ctx is
// cancelled.
func Run(ctx context.Context, opts Options, cfg scene.Config) error {
	if err := opts.validate(); err != nil {
		return fmt.Errorf("invalid desktop options: %w", err)
	}

	h := newHost(opts)
	s := scene.New(h, cfg)
	s.Entry(opts.Width, opts.Height)

	ebiten.SetWindowSize(opts.Width*opts.Scale, opts.Height*opts.Scale)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetWindowClosingHandled(true)

	slog.Info("Opening window", "width", opts.Width, "height", opts.Height, "scale", opts.Scale)

	g := &game{ctx: ctx, host: h, scene: s, status: scene.StatusWaiting}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return nil
}
