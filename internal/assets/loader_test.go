package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/cwbudde/parallax/internal/host"
	"github.com/cwbudde/parallax/internal/pixel"
)

// testImage builds a small NRGBA with distinct corner pixels
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeBMP(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	return buf.Bytes()
}

func waitLoader(t *testing.T, l *Loader) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Wait(ctx))
}

func TestLoader_DecodesPNG(t *testing.T) {
	fsys := fstest.MapFS{
		"image/icon.png": {Data: encodePNG(t, testImage(4, 3))},
	}
	l := NewLoader(fsys)

	h := l.RequestImage("./image/icon.png")
	waitLoader(t, l)

	require.True(t, l.ImageReady(h))
	require.Equal(t, StateReady, l.ImageState(h))
	require.NoError(t, l.Err(h))

	img := l.Image(h)
	require.NotNil(t, img)
	require.Equal(t, 4, img.Width)
	require.Equal(t, 3, img.Height)
	require.Equal(t, pixel.Pack(255, 0, 0, 128), img.At(0, 0))
	require.Equal(t, pixel.Pack(30, 20, 7, 255), img.At(3, 2))
}

func TestLoader_DecodesBMP(t *testing.T) {
	fsys := fstest.MapFS{
		"bg.bmp": {Data: encodeBMP(t, testImage(5, 2))},
	}
	l := NewLoader(fsys)

	h := l.RequestImage("bg.bmp")
	waitLoader(t, l)

	require.True(t, l.ImageReady(h))
	require.Equal(t, 5, l.Image(h).Width)
}

func TestLoader_FailuresNeverBecomeReady(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.png": {Data: []byte("not an image")},
	}
	l := NewLoader(fsys)

	missing := l.RequestImage("./nope.png")
	broken := l.RequestImage("./broken.png")
	waitLoader(t, l)

	for _, h := range []host.ImageHandle{missing, broken} {
		require.False(t, l.ImageReady(h))
		require.Equal(t, StateFailed, l.ImageState(h))
		require.Error(t, l.Err(h))
		require.Nil(t, l.Image(h))
	}
}

func TestLoader_UnknownHandles(t *testing.T) {
	l := NewLoader(fstest.MapFS{})

	require.False(t, l.ImageReady(42))
	require.Nil(t, l.Image(-1))
	require.Error(t, l.Err(3))
	require.False(t, l.AudioReady(5))
	require.Nil(t, l.AudioData(5))
	require.Empty(t, l.AudioURI(5))
}

func TestLoader_Audio(t *testing.T) {
	fsys := fstest.MapFS{
		"audio/track.wav": {Data: []byte("RIFF....WAVE")},
	}
	l := NewLoader(fsys)

	h := l.RequestAudio("./audio/track.wav")
	bad := l.RequestAudio("./audio/missing.wav")
	waitLoader(t, l)

	require.True(t, l.AudioReady(h))
	require.Equal(t, []byte("RIFF....WAVE"), l.AudioData(h))
	require.Equal(t, "./audio/track.wav", l.AudioURI(h))
	require.False(t, l.AudioReady(bad))
}

func TestLoader_HandlesAreSequential(t *testing.T) {
	l := NewLoader(fstest.MapFS{})
	require.Equal(t, host.ImageHandle(0), l.RequestImage("a.png"))
	require.Equal(t, host.ImageHandle(1), l.RequestImage("b.png"))
	require.Equal(t, host.AudioHandle(0), l.RequestAudio("a.wav"))
	waitLoader(t, l)
}

func TestLoader_WaitHonoursContext(t *testing.T) {
	l := NewLoader(fstest.MapFS{})
	l.wg.Add(1) // a request that never settles
	defer l.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Wait(ctx), context.Canceled)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "pending", StatePending.String())
	require.Equal(t, "ready", StateReady.String())
	require.Equal(t, "failed", StateFailed.String())
	require.Equal(t, "unknown", State(9).String())
}
