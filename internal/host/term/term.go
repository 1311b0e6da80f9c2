// Package term presents the scene in a terminal through tcell. Each cell
// shows two vertically stacked pixels with an upper half block: the
// foreground is the top pixel, the background the bottom one. The surface
// is sampled nearest-neighbour down to the terminal size.
package term

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cwbudde/parallax/internal/assets"
	"github.com/cwbudde/parallax/internal/host"
	"github.com/cwbudde/parallax/internal/host/headless"
	"github.com/cwbudde/parallax/internal/input"
	"github.com/cwbudde/parallax/internal/pixel"
	"github.com/cwbudde/parallax/internal/raster"
	"github.com/cwbudde/parallax/internal/scene"
)

const halfBlock = '▀'

var keyMap = map[tcell.Key]input.Key{
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyUp:         input.KeyArrowUp,
	tcell.KeyDown:       input.KeyArrowDown,
	tcell.KeyLeft:       input.KeyArrowLeft,
	tcell.KeyRight:      input.KeyArrowRight,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyPgUp:       input.KeyPageUp,
	tcell.KeyPgDn:       input.KeyPageDown,
	tcell.KeyInsert:     input.KeyInsert,
	tcell.KeyDelete:     input.KeyDelete,
}

var runeMap = map[rune]input.Key{
	' ': input.KeySpace,
	'a': input.KeyA, 'b': input.KeyB, 'c': input.KeyC, 'd': input.KeyD,
	'e': input.KeyE, 'f': input.KeyF, 'g': input.KeyG, 'h': input.KeyH,
	'i': input.KeyI, 'j': input.KeyJ, 'k': input.KeyK, 'l': input.KeyL,
	'm': input.KeyM, 'n': input.KeyN, 'o': input.KeyO, 'p': input.KeyP,
	'r': input.KeyR, 's': input.KeyS, 't': input.KeyT, 'u': input.KeyU,
	'v': input.KeyV, 'w': input.KeyW, 'x': input.KeyX, 'y': input.KeyY,
	'z': input.KeyZ,
	'0': input.KeyDigit0, '1': input.KeyDigit1, '2': input.KeyDigit2,
	'3': input.KeyDigit3, '4': input.KeyDigit4, '5': input.KeyDigit5,
	'6': input.KeyDigit6, '7': input.KeyDigit7, '8': input.KeyDigit8,
	'9': input.KeyDigit9,
}

// Host implements host.Host on a tcell screen. Audio calls are recorded
// and logged; terminals have no sound output.
type Host struct {
	screen *raster.Surface
	loader *assets.Loader
	audio  *headless.AudioLog
	input  *input.State
	term   tcell.Screen
}

var _ host.Host = (*Host)(nil)

// New creates a width x height pixel host presenting on term. term must
// already be initialised.
func New(term tcell.Screen, width, height int, fsys fs.FS) *Host {
	loader := assets.NewLoader(fsys)
	return &Host{
		screen: raster.NewSurface(width, height),
		loader: loader,
		audio:  headless.NewAudioLog(loader),
		input:  input.NewState(),
		term:   term,
	}
}

func (h *Host) Screen() *raster.Surface { return h.screen }

func (h *Host) RequestImage(uri string) host.ImageHandle {
	return h.loader.RequestImage(uri)
}

func (h *Host) ImageReady(img host.ImageHandle) bool { return h.loader.ImageReady(img) }

func (h *Host) Image(img host.ImageHandle) *raster.Image { return h.loader.Image(img) }

func (h *Host) RequestAudio(uri string) host.AudioHandle {
	return h.audio.RequestAudio(uri)
}

func (h *Host) Play(a host.AudioHandle, loop bool) { h.audio.Play(a, loop) }

func (h *Host) Pause(a host.AudioHandle) { h.audio.Pause(a) }

func (h *Host) SetVolume(a host.AudioHandle, level float64) { h.audio.SetVolume(a, level) }

func (h *Host) Cursor() image.Point { return h.input.Cursor }

func (h *Host) Keys() []bool { return h.input.Keys }

func (h *Host) Buttons() []bool { return h.input.Buttons }

// Audio exposes the recorded audio calls.
func (h *Host) Audio() *headless.AudioLog { return h.audio }

// cellToPixel maps the centre of terminal cell (cx, cy) to a surface pixel.
func (h *Host) cellToPixel(cx, cy int) image.Point {
	cols, rows := h.term.Size()
	if cols <= 0 || rows <= 0 {
		return image.Point{}
	}
	return image.Pt(
		(2*cx+1)*h.screen.Width/(2*cols),
		(2*cy+1)*h.screen.Height/(2*rows),
	)
}

// HandleEvent applies a terminal event to the input buffers and reports
// whether the user asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() == tcell.KeyRune {
			if ev.Rune() == 'q' {
				return true
			}
			if k, ok := runeMap[ev.Rune()]; ok {
				h.input.SetKey(k, true)
			}
			return false
		}
		if k, ok := keyMap[ev.Key()]; ok {
			h.input.SetKey(k, true)
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		h.input.Cursor = h.cellToPixel(x, y)

		btn := ev.Buttons()
		h.input.SetButton(input.ButtonLeft, btn&tcell.Button1 != 0)
		h.input.SetButton(input.ButtonRight, btn&tcell.Button2 != 0)
		h.input.SetButton(input.ButtonMiddle, btn&tcell.Button3 != 0)

	case *tcell.EventResize:
		h.term.Sync()
	}
	return false
}

// EndFrame releases keys. Terminals only report presses, so a key counts
// as held for the one frame following its event.
func (h *Host) EndFrame() {
	clear(h.input.Keys)
}

func cellColor(c pixel.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R()), int32(c.G()), int32(c.B()))
}

// Present draws the surface onto the terminal and shows it.
func (h *Host) Present() {
	cols, rows := h.term.Size()
	w, ht := h.screen.Width, h.screen.Height
	if cols <= 0 || rows <= 0 || w <= 0 || ht <= 0 {
		return
	}

	for cy := 0; cy < rows; cy++ {
		top := (2 * cy) * ht / (2 * rows)
		bottom := (2*cy + 1) * ht / (2 * rows)
		for cx := 0; cx < cols; cx++ {
			x := cx * w / cols
			style := tcell.StyleDefault.
				Foreground(cellColor(h.screen.At(x, top))).
				Background(cellColor(h.screen.At(x, bottom)))
			h.term.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	h.term.Show()
}

// Options configures the terminal run loop.
type Options struct {
	Width  int // Scene resolution, independent of the terminal size
	Height int
	FPS    int
	Assets fs.FS
}

// Run drives the scene on term until q, Esc or ctx cancellation. It owns
// the terminal lifecycle: Init on entry, Fini on return.
func Run(ctx context.Context, term tcell.Screen, opts Options, cfg scene.Config) error {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("failed to initialise terminal: %w", err)
	}
	defer term.Fini()

	term.SetStyle(tcell.StyleDefault)
	term.HideCursor()
	term.EnableMouse()
	term.Clear()

	h := New(term, opts.Width, opts.Height, opts.Assets)
	s := scene.New(h, cfg)
	s.Entry(opts.Width, opts.Height)

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := term.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(opts.FPS))
	defer ticker.Stop()

	slog.Info("Terminal host running", "width", opts.Width, "height", opts.Height, "fps", opts.FPS)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if h.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if s.Frame() == scene.StatusRendered {
				h.Present()
			}
			h.EndFrame()
		}
	}
}
