// Package input defines the key and button enumerations shared by every
// host, and the per-frame input snapshot the scene reads.
package input

import "image"

// Buffer sizes handed to the scene.
const (
	KeyStateLen    = 512
	ButtonStateLen = 8
)

// Button codes follow the browser's MouseEvent.button numbering.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// Key is a scan-code style key identifier. Extended keys carry a 0xE0 prefix
// byte (e.g. KeyArrowUp = 0xE048).
type Key uint16

// Index maps a Key into the key state buffer. Plain codes index directly;
// extended codes land in the upper half (0x100 + low byte) so the whole set
// fits KeyStateLen.
func (k Key) Index() int {
	if k>>8 == 0xE0 {
		return 0x100 | int(k&0xFF)
	}
	return int(k) & 0xFF
}

const (
	KeyEscape         Key = 0x0001
	KeyDigit0         Key = 0x0002
	KeyDigit1         Key = 0x0003
	KeyDigit2         Key = 0x0004
	KeyDigit3         Key = 0x0005
	KeyDigit4         Key = 0x0006
	KeyDigit5         Key = 0x0007
	KeyDigit6         Key = 0x0008
	KeyDigit7         Key = 0x0009
	KeyDigit8         Key = 0x000A
	KeyDigit9         Key = 0x000B
	KeyMinus          Key = 0x000C
	KeyEqual          Key = 0x000D
	KeyBackspace      Key = 0x000E
	KeyTab            Key = 0x000F
	KeyQ              Key = 0x0010
	KeyW              Key = 0x0011
	KeyE              Key = 0x0012
	KeyR              Key = 0x0013
	KeyT              Key = 0x0014
	KeyY              Key = 0x0015
	KeyU              Key = 0x0016
	KeyI              Key = 0x0017
	KeyO              Key = 0x0018
	KeyP              Key = 0x0019
	KeyBracketLeft    Key = 0x001A
	KeyBracketRight   Key = 0x001B
	KeyEnter          Key = 0x001C
	KeyControlLeft    Key = 0x001D
	KeyA              Key = 0x001E
	KeyS              Key = 0x001F
	KeyD              Key = 0x0020
	KeyF              Key = 0x0021
	KeyG              Key = 0x0022
	KeyH              Key = 0x0023
	KeyJ              Key = 0x0024
	KeyK              Key = 0x0025
	KeyL              Key = 0x0026
	KeySemicolon      Key = 0x0027
	KeyQuote          Key = 0x0028
	KeyBackquote      Key = 0x0029
	KeyShiftLeft      Key = 0x002A
	KeyBackslash      Key = 0x002B
	KeyZ              Key = 0x002C
	KeyX              Key = 0x002D
	KeyC              Key = 0x002E
	KeyV              Key = 0x002F
	KeyB              Key = 0x0030
	KeyN              Key = 0x0031
	KeyM              Key = 0x0032
	KeyComma          Key = 0x0033
	KeyPeriod         Key = 0x0034
	KeySlash          Key = 0x0035
	KeyShiftRight     Key = 0x0036
	KeyNumpadMultiply Key = 0x0037
	KeyAltLeft        Key = 0x0038
	KeySpace          Key = 0x0039
	KeyCapsLock       Key = 0x003A
	KeyF1             Key = 0x003B
	KeyF2             Key = 0x003C
	KeyF3             Key = 0x003D
	KeyF4             Key = 0x003E
	KeyF5             Key = 0x003F
	KeyF6             Key = 0x0040
	KeyF7             Key = 0x0041
	KeyF8             Key = 0x0042
	KeyF9             Key = 0x0043
	KeyF10            Key = 0x0044
	KeyPause          Key = 0x0045
	KeyScrollLock     Key = 0x0046
	KeyNumpad7        Key = 0x0047
	KeyNumpad8        Key = 0x0048
	KeyNumpad9        Key = 0x0049
	KeyNumpadSubtract Key = 0x004A
	KeyNumpad4        Key = 0x004B
	KeyNumpad5        Key = 0x004C
	KeyNumpad6        Key = 0x004D
	KeyNumpadAdd      Key = 0x004E
	KeyNumpad1        Key = 0x004F
	KeyNumpad2        Key = 0x0050
	KeyNumpad3        Key = 0x0051
	KeyNumpad0        Key = 0x0052
	KeyNumpadDecimal  Key = 0x0053
	KeyIntlBackslash  Key = 0x0056
	KeyF11            Key = 0x0057
	KeyF12            Key = 0x0058
	KeyIntlYen        Key = 0x007D
	KeyNumpadEnter    Key = 0xE01C
	KeyControlRight   Key = 0xE01D
	KeyNumpadDivide   Key = 0xE035
	KeyPrintScreen    Key = 0xE037
	KeyAltRight       Key = 0xE038
	KeyNumLock        Key = 0xE045
	KeyHome           Key = 0xE047
	KeyArrowUp        Key = 0xE048
	KeyPageUp         Key = 0xE049
	KeyArrowLeft      Key = 0xE04B
	KeyArrowRight     Key = 0xE04D
	KeyEnd            Key = 0xE04F
	KeyArrowDown      Key = 0xE050
	KeyPageDown       Key = 0xE051
	KeyInsert         Key = 0xE052
	KeyDelete         Key = 0xE053
	KeyMetaLeft       Key = 0xE05B
	KeyMetaRight      Key = 0xE05C
	KeyContextMenu    Key = 0xE05D
)

// State is the input snapshot a host exposes for one frame.
type State struct {
	Cursor  image.Point
	Keys    []bool
	Buttons []bool
}

// NewState allocates zeroed key and button buffers.
func NewState() *State {
	return &State{
		Keys:    make([]bool, KeyStateLen),
		Buttons: make([]bool, ButtonStateLen),
	}
}

// SetKey records k as held or released.
func (s *State) SetKey(k Key, down bool) {
	if i := k.Index(); i < len(s.Keys) {
		s.Keys[i] = down
	}
}

// SetButton records button b as held or released. Unknown buttons are ignored.
func (s *State) SetButton(b int, down bool) {
	if b >= 0 && b < len(s.Buttons) {
		s.Buttons[b] = down
	}
}

// Edges detects rising edges on a button buffer across frames.
type Edges struct {
	old []bool
}

// NewEdges tracks a buffer of n buttons, all initially released.
func NewEdges(n int) *Edges {
	return &Edges{old: make([]bool, n)}
}

// Pressed reports whether button b is down now and was up at the last Latch.
func (e *Edges) Pressed(cur []bool, b int) bool {
	if b < 0 || b >= len(cur) || b >= len(e.old) {
		return false
	}
	return cur[b] && !e.old[b]
}

// Latch remembers cur as the previous frame's state.
func (e *Edges) Latch(cur []bool) {
	copy(e.old, cur)
}
