package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

// State bundles the keyboard and mouse the game reads each frame.
type State struct {
	Keyboard *Keyboard
	Mouse    *Mouse
}

func NewState(holdFrames int) *State {
	return &State{
		Keyboard: NewKeyboard(holdFrames),
		Mouse:    NewMouse(),
	}
}

// Feed routes a terminal event to the device it belongs to. Other events
// are ignored.
func (s *State) Feed(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.Keyboard.Feed(ev)
	case *tcell.EventMouse:
		s.Mouse.Feed(ev)
	}
}

// Drain feeds every event currently buffered in ch without blocking.
func (s *State) Drain(ch <-chan tcell.Event) int {
	n := 0
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return n
			}
			s.Feed(ev)
			n++
		default:
			return n
		}
	}
}

// Update folds buffered input into this frame's state.
func (s *State) Update(f frame.Frame) {
	s.Keyboard.Update(f)
	s.Mouse.Update()
}
