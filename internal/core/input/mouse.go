package input

import (
	"github.com/gdamore/tcell/v2"
)

// Point is a screen cell position.
type Point struct {
	X, Y int
}

// Rect is a screen-space rectangle, used for hover and click tests.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Mouse tracks pointer position and button state across frames.
type Mouse struct {
	pos         Point
	buttons     tcell.ButtonMask
	prevButtons tcell.ButtonMask

	pendingPos     Point
	pendingButtons tcell.ButtonMask
	hasPending     bool
}

func NewMouse() *Mouse {
	return &Mouse{}
}

// Feed buffers the latest mouse event until the next Update.
func (m *Mouse) Feed(ev *tcell.EventMouse) {
	if ev == nil {
		return
	}
	x, y := ev.Position()
	m.pendingPos = Point{X: x, Y: y}
	m.pendingButtons = ev.Buttons()
	m.hasPending = true
}

// Update applies the last buffered event.
func (m *Mouse) Update() {
	m.prevButtons = m.buttons
	if !m.hasPending {
		return
	}
	m.pos = m.pendingPos
	m.buttons = m.pendingButtons
	m.hasPending = false
}

func (m *Mouse) Position() Point {
	return m.pos
}

func (m *Mouse) IsLeftButtonDown() bool {
	return m.buttons&tcell.Button1 != 0
}

// IsLeftButtonClickedOnce is true only on the frame the left button goes down.
func (m *Mouse) IsLeftButtonClickedOnce() bool {
	return m.buttons&tcell.Button1 != 0 && m.prevButtons&tcell.Button1 == 0
}

// IsRightButtonClickedOnce is true only on the frame the right button goes down.
func (m *Mouse) IsRightButtonClickedOnce() bool {
	return m.buttons&tcell.Button2 != 0 && m.prevButtons&tcell.Button2 == 0
}

// Within reports whether the pointer is inside r.
func (m *Mouse) Within(r Rect) bool {
	return r.Contains(m.pos)
}
