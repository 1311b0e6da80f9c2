package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyIndex(t *testing.T) {
	require.Equal(t, 0x01, KeyEscape.Index())
	require.Equal(t, 0x58, KeyF12.Index())
	require.Equal(t, 0x148, KeyArrowUp.Index())
	require.Equal(t, 0x153, KeyDelete.Index())
	require.Less(t, KeyContextMenu.Index(), KeyStateLen)
}

func TestState_SetKeyAndButton(t *testing.T) {
	s := NewState()
	require.Len(t, s.Keys, KeyStateLen)
	require.Len(t, s.Buttons, ButtonStateLen)

	s.SetKey(KeyArrowLeft, true)
	require.True(t, s.Keys[KeyArrowLeft.Index()])
	require.False(t, s.Keys[KeyArrowLeft&0xFF])

	s.SetButton(ButtonRight, true)
	require.True(t, s.Buttons[ButtonRight])

	// Out of range buttons are dropped rather than panicking
	s.SetButton(-1, true)
	s.SetButton(ButtonStateLen, true)
}

func TestEdges_RisingOnly(t *testing.T) {
	s := NewState()
	e := NewEdges(ButtonStateLen)

	require.False(t, e.Pressed(s.Buttons, ButtonLeft))

	s.SetButton(ButtonLeft, true)
	require.True(t, e.Pressed(s.Buttons, ButtonLeft))
	e.Latch(s.Buttons)

	// Held: no new edge
	require.False(t, e.Pressed(s.Buttons, ButtonLeft))

	s.SetButton(ButtonLeft, false)
	e.Latch(s.Buttons)
	s.SetButton(ButtonLeft, true)
	require.True(t, e.Pressed(s.Buttons, ButtonLeft))

	require.False(t, e.Pressed(s.Buttons, 99))
}
