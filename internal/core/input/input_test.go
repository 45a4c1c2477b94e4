package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Key
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), "w"},
		{"upper rune", tcell.NewEventKey(tcell.KeyRune, 'M', tcell.ModShift), "m"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), KeySpace},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), KeyEscape},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), KeyUp},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), KeyEnter},
		{"nil", nil, KeyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyOf(tt.ev))
		})
	}
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, KeyEscape, ParseKey("Escape"))
	assert.Equal(t, KeyEscape, ParseKey("esc"))
	assert.Equal(t, KeySpace, ParseKey(" "))
	assert.Equal(t, Key("w"), ParseKey(" W "))
	assert.Equal(t, KeyNone, ParseKey(""))
}

func TestKeyboardHoldWindow(t *testing.T) {
	k := NewKeyboard(3)
	k.Feed(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))

	k.Update(frame.Fixed(1, 0))
	assert.True(t, k.IsKeyDown("w"))
	assert.True(t, k.IsFirstKeyPress("w"))

	k.Update(frame.Fixed(2, 0))
	assert.True(t, k.IsKeyDown("w"))
	assert.False(t, k.IsFirstKeyPress("w"), "still held, not a new press")

	// An auto-repeat keeps the key held.
	k.Press("w")
	k.Update(frame.Fixed(3, 0))
	k.Update(frame.Fixed(4, 0))
	k.Update(frame.Fixed(5, 0))
	assert.True(t, k.IsKeyDown("w"))

	k.Update(frame.Fixed(6, 0))
	assert.False(t, k.IsKeyDown("w"))
	assert.True(t, k.IsKeyUp("w"))
	assert.False(t, k.IsAnyKeyPressed())
}

func TestKeyboardIgnoresUnknownKeys(t *testing.T) {
	k := NewKeyboard(0)
	k.Press(KeyNone)
	k.Update(frame.Fixed(1, 0))
	assert.False(t, k.IsAnyKeyPressed())
}

func TestMouseClickOnce(t *testing.T) {
	m := NewMouse()
	m.Feed(tcell.NewEventMouse(4, 2, tcell.Button1, tcell.ModNone))
	m.Update()
	assert.Equal(t, Point{X: 4, Y: 2}, m.Position())
	assert.True(t, m.IsLeftButtonClickedOnce())
	assert.True(t, m.IsLeftButtonDown())

	m.Update()
	assert.False(t, m.IsLeftButtonClickedOnce())
	assert.True(t, m.IsLeftButtonDown())

	m.Feed(tcell.NewEventMouse(5, 2, tcell.ButtonNone, tcell.ModNone))
	m.Update()
	assert.False(t, m.IsLeftButtonDown())
	assert.True(t, m.Within(Rect{X: 5, Y: 2, Width: 1, Height: 1}))
	assert.False(t, m.Within(Rect{X: 0, Y: 0, Width: 5, Height: 2}))
}

func TestStateRoutesEvents(t *testing.T) {
	s := NewState(2)
	ch := make(chan tcell.Event, 4)
	ch <- tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	ch <- tcell.NewEventMouse(1, 1, tcell.Button2, tcell.ModNone)
	ch <- tcell.NewEventResize(80, 24)

	assert.Equal(t, 3, s.Drain(ch))
	s.Update(frame.Fixed(1, 0))

	assert.True(t, s.Keyboard.IsFirstKeyPress(KeyEscape))
	assert.True(t, s.Mouse.IsRightButtonClickedOnce())
	assert.Equal(t, 0, s.Drain(ch))
}
