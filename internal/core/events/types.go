package events

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
)

// Category is the routing key: handlers subscribe per category.
type Category uint8

const (
	CategoryPlayer Category = iota + 1
	CategoryMenu
	CategoryUI
	CategorySound
	CategoryObject
	CategoryCamera
	CategoryEnd
	CategoryDebug
)

var categoryNames = map[Category]string{
	CategoryPlayer: "player",
	CategoryMenu:   "menu",
	CategoryUI:     "ui",
	CategorySound:  "sound",
	CategoryObject: "object",
	CategoryCamera: "camera",
	CategoryEnd:    "end",
	CategoryDebug:  "debug",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Categories lists every known category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryPlayer, CategoryMenu, CategoryUI, CategorySound,
		CategoryObject, CategoryCamera, CategoryEnd, CategoryDebug,
	}
}

// Action says what happened within a category.
type Action uint8

const (
	OnWin Action = iota + 1
	OnGameOver
	OnPlay2D
	OnPlay3D
	OnStop
	OnVolumeDelta
	OnHealthDelta
	OnDeathCountChange
	OnRemoveActor
	OnAddActor
	OnApplyActionToFirstMatchActor
	OnApplyActionToAllActors
	OnPause
	OnPlay
	OnCameraCycle
	OnSceneChange
)

var actionNames = map[Action]string{
	OnWin:                          "on_win",
	OnGameOver:                     "on_game_over",
	OnPlay2D:                       "on_play_2d",
	OnPlay3D:                       "on_play_3d",
	OnStop:                         "on_stop",
	OnVolumeDelta:                  "on_volume_delta",
	OnHealthDelta:                  "on_health_delta",
	OnDeathCountChange:             "on_death_count_change",
	OnRemoveActor:                  "on_remove_actor",
	OnAddActor:                     "on_add_actor",
	OnApplyActionToFirstMatchActor: "on_apply_action_to_first_match_actor",
	OnApplyActionToAllActors:       "on_apply_action_to_all_actors",
	OnPause:                        "on_pause",
	OnPlay:                         "on_play",
	OnCameraCycle:                  "on_camera_cycle",
	OnSceneChange:                  "on_scene_change",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Payload is the sealed set of per-action parameter shapes. Handlers type
// switch on it and ignore shapes they do not expect.
type Payload interface {
	payload()
}

// SoundCue names a cue to play, stop or adjust.
type SoundCue struct {
	ID string `json:"id"`
}

// Listener is the ear position and orientation for positional audio.
type Listener struct {
	Position mgl64.Vec3 `json:"position"`
	Forward  mgl64.Vec3 `json:"forward"`
	Up       mgl64.Vec3 `json:"up"`
}

// Sound3D plays a cue positioned at Emitter relative to Listener.
type Sound3D struct {
	ID       string     `json:"id"`
	Listener Listener   `json:"listener"`
	Emitter  mgl64.Vec3 `json:"emitter"`
}

// VolumeDelta changes a playing cue's volume; an empty ID targets the master volume.
type VolumeDelta struct {
	ID    string  `json:"id,omitempty"`
	Delta float64 `json:"delta"`
}

// Delta is a signed integer change, e.g. health or death count.
type Delta struct {
	Amount int `json:"amount"`
}

// ActorRef refers to a registered actor.
type ActorRef struct {
	Actor actor.Actor `json:"-"`
}

// LevelChange announces the level to load next.
type LevelChange struct {
	Level int `json:"level"`
}

// GameOver carries the final tallies shown on the end scene.
type GameOver struct {
	DeathCount int `json:"death_count"`
	Level      int `json:"level"`
}

// ActorQuery applies Apply to registered actors for which Match is true.
type ActorQuery struct {
	Match func(actor.Actor) bool `json:"-"`
	Apply func(actor.Actor)      `json:"-"`
}

// Scene names a menu scene.
type Scene struct {
	Name string `json:"name"`
}

// CameraRef names the camera that became active.
type CameraRef struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

func (SoundCue) payload()    {}
func (Sound3D) payload()     {}
func (VolumeDelta) payload() {}
func (Delta) payload()       {}
func (ActorRef) payload()    {}
func (LevelChange) payload() {}
func (GameOver) payload()    {}
func (ActorQuery) payload()  {}
func (Scene) payload()       {}
func (CameraRef) payload()   {}

// Event is an immutable notification. It is never stored by the dispatcher.
type Event struct {
	Category Category
	Action   Action
	Payload  Payload
	Source   string
}

// New builds an event.
func New(c Category, a Action, p Payload) Event {
	return Event{Category: c, Action: a, Payload: p}
}

// From returns a copy of the event tagged with its publisher.
func (e Event) From(source string) Event {
	e.Source = source
	return e
}

func (e Event) String() string {
	return e.Category.String() + "/" + e.Action.String()
}

// PayloadAs extracts the payload when it has the expected shape.
func PayloadAs[T Payload](e Event) (T, bool) {
	p, ok := e.Payload.(T)
	return p, ok
}

// Common events.

func Play2D(cue string) Event {
	return New(CategorySound, OnPlay2D, SoundCue{ID: cue})
}

func RemoveActor(a actor.Actor) Event {
	return New(CategoryObject, OnRemoveActor, ActorRef{Actor: a})
}

func DeathCountChange(delta int) Event {
	return New(CategoryUI, OnDeathCountChange, Delta{Amount: delta})
}

func HealthDelta(delta int) Event {
	return New(CategoryUI, OnHealthDelta, Delta{Amount: delta})
}

func Pause() Event {
	return New(CategoryMenu, OnPause, nil)
}

func Play() Event {
	return New(CategoryMenu, OnPlay, nil)
}

func Win(nextLevel int) Event {
	return New(CategoryPlayer, OnWin, LevelChange{Level: nextLevel})
}
