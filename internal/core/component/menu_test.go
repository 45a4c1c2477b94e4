package component

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
)

type menuHarness struct {
	d     *events.Dispatcher
	in    *input.State
	menu  *MenuManager
	rec   *recorder
	frame uint64
	exits int
}

func newMenu(t *testing.T, hidden bool) *menuHarness {
	t.Helper()
	h := &menuHarness{d: events.NewDispatcher(nil), in: input.NewState(input.DefaultHoldFrames)}
	h.rec = record(t, h.d, events.CategoryMenu, events.CategorySound)
	m, err := NewMenuManager(h.d, MenuConfig{
		StartHidden: hidden,
		Input:       h.in,
		Exit:        func() { h.exits++ },
	})
	require.NoError(t, err)
	h.menu = m
	return h
}

func (h *menuHarness) tick() {
	h.frame += uint64(input.DefaultHoldFrames) + 1
	f := frame.Fixed(h.frame, step)
	h.in.Update(f)
	h.menu.Update(f)
}

// press holds k for one frame, then idles until the key has expired.
func (h *menuHarness) press(k input.Key) {
	h.in.Keyboard.Press(k)
	h.tick()
	h.tick()
}

func (h *menuHarness) click(x, y int) {
	h.in.Mouse.Feed(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	h.tick()
	h.in.Mouse.Feed(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
	h.tick()
}

// center of the button with id on the current scene.
func (h *menuHarness) center(t *testing.T, id string) (int, int) {
	t.Helper()
	for _, b := range h.menu.Buttons() {
		if b.ID == id {
			return b.Bounds.X + b.Bounds.Width/2, b.Bounds.Y
		}
	}
	t.Fatalf("no button %q on scene %q", id, h.menu.Scene())
	return 0, 0
}

func TestMenuToggleKeyPublishesPauseAndPlay(t *testing.T) {
	h := newMenu(t, true)
	assert.False(t, h.menu.IsVisible())

	h.press("m")
	assert.True(t, h.menu.IsVisible())
	h.press("m")
	assert.False(t, h.menu.IsVisible())

	assert.Equal(t, []events.Action{events.OnPause, events.OnPlay}, h.rec.actions())
}

func TestMenuPlayButtonClicksAndResumes(t *testing.T) {
	h := newMenu(t, false)
	x, y := h.center(t, "play")
	h.click(x, y)

	require.Len(t, h.rec.got, 2)
	cue, ok := events.PayloadAs[events.SoundCue](h.rec.got[0])
	require.True(t, ok)
	assert.Equal(t, "buttonClick", cue.ID)
	assert.Equal(t, events.CategorySound, h.rec.got[0].Category)
	assert.Equal(t, events.OnPlay, h.rec.got[1].Action)
	assert.False(t, h.menu.IsVisible())
}

func TestMenuIgnoresClicksWhileHidden(t *testing.T) {
	h := newMenu(t, true)
	x, y := h.center(t, "play")
	h.click(x, y)
	assert.Empty(t, h.rec.got)
}

func TestMenuClickOutsideButtons(t *testing.T) {
	h := newMenu(t, false)
	h.click(60, 40)
	assert.Empty(t, h.rec.got)
}

func TestMenuSceneNavigation(t *testing.T) {
	h := newMenu(t, false)
	require.NoError(t, h.menu.Click("controls"))
	assert.Equal(t, SceneControls, h.menu.Scene())

	var scenes []string
	for _, e := range h.rec.got {
		if s, ok := events.PayloadAs[events.Scene](e); ok {
			scenes = append(scenes, s.Name)
		}
	}
	assert.Equal(t, []string{SceneControls}, scenes)

	require.Error(t, h.menu.Click("play"), "play is not on the controls scene")
	require.NoError(t, h.menu.Click("back"))
	assert.Equal(t, SceneMain, h.menu.Scene())

	err := h.menu.SetScene("credits")
	assert.ErrorIs(t, err, ErrUnknownScene)
	assert.Equal(t, SceneMain, h.menu.Scene())
}

func TestMenuAudioButtonsChangeMasterVolume(t *testing.T) {
	h := newMenu(t, false)
	require.NoError(t, h.menu.SetScene(SceneAudio))
	require.NoError(t, h.menu.Click("volume_down"))

	last := h.rec.got[len(h.rec.got)-1]
	v, ok := events.PayloadAs[events.VolumeDelta](last)
	require.True(t, ok)
	assert.Empty(t, v.ID)
	assert.InDelta(t, -0.1, v.Delta, 1e-9)
}

func TestMenuExitButton(t *testing.T) {
	h := newMenu(t, false)
	require.NoError(t, h.menu.Click("exit"))
	assert.Equal(t, 1, h.exits)
	assert.True(t, h.menu.ExitRequested())
	assert.Equal(t, events.OnPlay2D, h.rec.got[0].Action)
}

func TestMenuGameOverShowsEndScene(t *testing.T) {
	h := newMenu(t, true)
	paused := 0
	_, err := h.d.Subscribe(events.CategoryMenu, func(e events.Event) error {
		if e.Action == events.OnPause {
			paused++
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, h.d.Publish(events.New(events.CategoryPlayer, events.OnGameOver, events.GameOver{DeathCount: 2, Level: 3})))
	assert.True(t, h.menu.IsVisible())
	assert.Equal(t, SceneEnd, h.menu.Scene())
	assert.Equal(t, 1, paused)

	x, y := h.center(t, "End_Button")
	h.click(x, y)
	assert.Equal(t, 1, h.exits)
}

func TestMenuRejectsUnknownStartScene(t *testing.T) {
	_, err := NewMenuManager(events.NewDispatcher(nil), MenuConfig{StartScene: "nowhere"})
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestMenuClose(t *testing.T) {
	h := newMenu(t, true)
	h.menu.Close()
	require.NoError(t, h.d.Publish(events.Pause()))
	assert.False(t, h.menu.IsVisible())
}
