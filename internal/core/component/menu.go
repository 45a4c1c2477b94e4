package component

import (
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

const (
	SceneMain     = "main"
	SceneControls = "controls"
	SceneAudio    = "audio"
	SceneEnd      = "end"
)

// ButtonKind selects what a menu button does when clicked.
type ButtonKind uint8

const (
	ButtonPlay ButtonKind = iota + 1
	ButtonExit
	ButtonScene
	ButtonVolume
)

// Button is a clickable rectangle on a menu scene.
type Button struct {
	ID     string
	Label  string
	Bounds input.Rect
	Kind   ButtonKind
	Target string  // scene for ButtonScene
	Delta  float64 // master volume change for ButtonVolume
}

// MenuScene is one page of the menu.
type MenuScene struct {
	Name    string
	Buttons []Button
}

// DefaultMenuScenes lays the four scenes out as a single column of buttons.
func DefaultMenuScenes() []MenuScene {
	row := func(i int) input.Rect { return input.Rect{X: 2, Y: 2 + 2*i, Width: 16, Height: 1} }
	return []MenuScene{
		{Name: SceneMain, Buttons: []Button{
			{ID: "play", Label: "Play", Bounds: row(0), Kind: ButtonPlay},
			{ID: "controls", Label: "Controls", Bounds: row(1), Kind: ButtonScene, Target: SceneControls},
			{ID: "audio", Label: "Audio", Bounds: row(2), Kind: ButtonScene, Target: SceneAudio},
			{ID: "exit", Label: "Exit", Bounds: row(3), Kind: ButtonExit},
		}},
		{Name: SceneControls, Buttons: []Button{
			{ID: "back", Label: "Back", Bounds: row(0), Kind: ButtonScene, Target: SceneMain},
		}},
		{Name: SceneAudio, Buttons: []Button{
			{ID: "volume_up", Label: "Volume +", Bounds: row(0), Kind: ButtonVolume, Delta: 0.1},
			{ID: "volume_down", Label: "Volume -", Bounds: row(1), Kind: ButtonVolume, Delta: -0.1},
			{ID: "back", Label: "Back", Bounds: row(2), Kind: ButtonScene, Target: SceneMain},
		}},
		{Name: SceneEnd, Buttons: []Button{
			{ID: "End_Button", Label: "Quit", Bounds: row(0), Kind: ButtonExit},
		}},
	}
}

// MenuConfig configures a MenuManager.
type MenuConfig struct {
	Scenes      []MenuScene
	StartScene  string
	StartHidden bool
	ToggleKey   input.Key
	ClickCue    string
	Input       *input.State
	Exit        func()
	Logger      log.Log
}

// MenuManager shows and hides the menu, switches scenes and turns clicks
// into events. It is never paused itself: the toggle key works from both
// states, clicks only while visible.
type MenuManager struct {
	publisher *events.Dispatcher
	group     *events.Group
	scenes    map[string]MenuScene
	scene     string
	visible   bool
	toggle    input.Key
	clickCue  string
	input     *input.State
	exit      func()
	exited    bool
	logger    log.Log
}

func NewMenuManager(d *events.Dispatcher, cfg MenuConfig) (*MenuManager, error) {
	if len(cfg.Scenes) == 0 {
		cfg.Scenes = DefaultMenuScenes()
	}
	if cfg.StartScene == "" {
		cfg.StartScene = SceneMain
	}
	if cfg.ToggleKey == input.KeyNone {
		cfg.ToggleKey = "m"
	}
	if cfg.ClickCue == "" {
		cfg.ClickCue = "buttonClick"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	m := &MenuManager{
		publisher: d,
		group:     d.NewGroup("menu"),
		scenes:    make(map[string]MenuScene, len(cfg.Scenes)),
		visible:   !cfg.StartHidden,
		toggle:    cfg.ToggleKey,
		clickCue:  cfg.ClickCue,
		input:     cfg.Input,
		exit:      cfg.Exit,
		logger:    logger.With(log.String("component", "menu")),
	}
	for _, s := range cfg.Scenes {
		m.scenes[s.Name] = s
	}
	if _, ok := m.scenes[cfg.StartScene]; !ok {
		return nil, oops.Code("UNKNOWN_SCENE").With("scene", cfg.StartScene).Wrap(ErrUnknownScene)
	}
	m.scene = cfg.StartScene

	if _, err := m.group.Subscribe(events.CategoryMenu, m.handleMenu); err != nil {
		return nil, err
	}
	if _, err := m.group.Subscribe(events.CategoryPlayer, m.handlePlayer); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MenuManager) IsVisible() bool     { return m.visible }
func (m *MenuManager) Scene() string       { return m.scene }
func (m *MenuManager) ExitRequested() bool { return m.exited }

// Buttons are the buttons of the current scene.
func (m *MenuManager) Buttons() []Button {
	return m.scenes[m.scene].Buttons
}

// SetScene switches the visible page and announces it.
func (m *MenuManager) SetScene(name string) error {
	if _, ok := m.scenes[name]; !ok {
		return oops.Code("UNKNOWN_SCENE").With("scene", name).Wrap(ErrUnknownScene)
	}
	if m.scene == name {
		return nil
	}
	m.scene = name
	m.logger.Info("scene changed", log.String("scene", name))
	return m.publisher.Publish(events.New(events.CategoryMenu, events.OnSceneChange, events.Scene{Name: name}))
}

func (m *MenuManager) handleMenu(e events.Event) error {
	switch e.Action {
	case events.OnPause:
		m.visible = true
	case events.OnPlay:
		m.visible = false
	}
	return nil
}

func (m *MenuManager) handlePlayer(e events.Event) error {
	if e.Action != events.OnGameOver {
		return nil
	}
	if err := m.SetScene(SceneEnd); err != nil {
		return err
	}
	m.visible = true
	return m.publisher.Publish(events.Pause())
}

// Update reads the toggle key and, while visible, button clicks.
func (m *MenuManager) Update(frame.Frame) {
	if m.input == nil {
		return
	}
	if m.input.Keyboard.IsFirstKeyPress(m.toggle) {
		if m.visible {
			m.publish(events.Play())
		} else {
			m.publish(events.Pause())
		}
		return
	}
	if !m.visible || !m.input.Mouse.IsLeftButtonClickedOnce() {
		return
	}
	pos := m.input.Mouse.Position()
	for _, b := range m.Buttons() {
		if b.Bounds.Contains(pos) {
			if err := m.Click(b.ID); err != nil {
				m.logger.Warn("menu click failed", log.String("button", b.ID), log.Error(err))
			}
			return
		}
	}
}

// Click activates a button of the current scene by id.
func (m *MenuManager) Click(id string) error {
	var btn *Button
	for i, b := range m.Buttons() {
		if b.ID == id {
			btn = &m.Buttons()[i]
			break
		}
	}
	if btn == nil {
		return oops.Code("UNKNOWN_BUTTON").With("scene", m.scene).With("button", id).Errorf("no button %q on scene %q", id, m.scene)
	}
	m.logger.Debug("button clicked", log.String("button", id))

	switch btn.Kind {
	case ButtonPlay:
		m.publish(events.Play2D(m.clickCue))
		m.publish(events.Play())
	case ButtonExit:
		m.publish(events.Play2D(m.clickCue))
		m.exited = true
		if m.exit != nil {
			m.exit()
		}
	case ButtonScene:
		m.publish(events.Play2D(m.clickCue))
		return m.SetScene(btn.Target)
	case ButtonVolume:
		m.publish(events.New(events.CategorySound, events.OnVolumeDelta, events.VolumeDelta{Delta: btn.Delta}))
	}
	return nil
}

// publish drops the error: the dispatcher has already logged it.
func (m *MenuManager) publish(e events.Event) {
	_ = m.publisher.Publish(e.From("menu"))
}

// Close removes the menu's subscriptions.
func (m *MenuManager) Close() {
	m.group.CancelAll()
}
