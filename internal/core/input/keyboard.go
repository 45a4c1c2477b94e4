// Package input turns terminal events into the per-frame keyboard and mouse
// state gameplay code reads: "is key held", "is key newly pressed", mouse
// position and button clicks. Events are fed in as they arrive and folded
// into state once per frame by Update.
package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

// DefaultHoldFrames is how long a key counts as held after its last event.
// Terminals report presses and auto-repeats but never releases.
const DefaultHoldFrames = 8

// Keyboard tracks key state across frames.
type Keyboard struct {
	hold     uint64
	pending  []Key
	lastSeen map[Key]uint64
	down     map[Key]bool
	prevDown map[Key]bool
	frame    uint64
}

func NewKeyboard(holdFrames int) *Keyboard {
	if holdFrames <= 0 {
		holdFrames = DefaultHoldFrames
	}
	return &Keyboard{
		hold:     uint64(holdFrames),
		lastSeen: make(map[Key]uint64),
		down:     make(map[Key]bool),
		prevDown: make(map[Key]bool),
	}
}

// Feed buffers a key event until the next Update.
func (k *Keyboard) Feed(ev *tcell.EventKey) {
	if key := KeyOf(ev); key != KeyNone {
		k.pending = append(k.pending, key)
	}
}

// Press buffers a key by name, for scripted input.
func (k *Keyboard) Press(key Key) {
	if key != KeyNone {
		k.pending = append(k.pending, key)
	}
}

// Update folds buffered events into the state for frame f.
func (k *Keyboard) Update(f frame.Frame) {
	k.frame = f.Index
	k.prevDown, k.down = k.down, k.prevDown
	clear(k.down)

	for _, key := range k.pending {
		k.lastSeen[key] = f.Index
	}
	k.pending = k.pending[:0]

	for key, seen := range k.lastSeen {
		if f.Index-seen < k.hold {
			k.down[key] = true
		} else {
			delete(k.lastSeen, key)
		}
	}
}

func (k *Keyboard) IsKeyDown(key Key) bool {
	return k.down[key]
}

func (k *Keyboard) IsKeyUp(key Key) bool {
	return !k.down[key]
}

// IsFirstKeyPress is true only on the frame a key goes from up to down.
func (k *Keyboard) IsFirstKeyPress(key Key) bool {
	return k.down[key] && !k.prevDown[key]
}

// IsAnyKeyPressed reports whether any key is held this frame.
func (k *Keyboard) IsAnyKeyPressed() bool {
	return len(k.down) > 0
}
