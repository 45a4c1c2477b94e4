// Package config loads the game's YAML configuration. Every value has a
// default; a file only needs to name what it changes.
package config

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a YAML triple such as [0, 5, 0].
type Vec3 [3]float64

func (v Vec3) Vec() mgl64.Vec3 { return mgl64.Vec3(v) }

type Config struct {
	Game   GameConfig    `json:"game" yaml:"game"`
	Player PlayerConfig  `json:"player" yaml:"player"`
	Sounds []SoundConfig `json:"sounds" yaml:"sounds"`
	Levels []LevelConfig `json:"levels" yaml:"levels"`
	Server ServerConfig  `json:"server" yaml:"server"`

	// BaseDir resolves relative map image paths. Load sets it to the
	// directory of the config file.
	BaseDir string `json:"-" yaml:"-"`
}

type GameConfig struct {
	Title       string   `json:"title" yaml:"title"`
	FPS         int      `json:"fps" yaml:"fps"`
	StartLevel  int      `json:"start_level" yaml:"start_level"`
	LogLevel    string   `json:"log_level" yaml:"log_level"`
	LogEncoding string   `json:"log_encoding" yaml:"log_encoding"`
	LogFile     string   `json:"log_file,omitempty" yaml:"log_file,omitempty"` // stderr when empty
	Cameras     []string `json:"cameras" yaml:"cameras"`
	HoldFrames  int      `json:"hold_frames" yaml:"hold_frames"`
	MaxHealth   int      `json:"max_health" yaml:"max_health"`
	MaxDeaths   int      `json:"max_deaths" yaml:"max_deaths"`
	StartInMenu bool     `json:"start_in_menu" yaml:"start_in_menu"`
}

type PlayerConfig struct {
	ID        string     `json:"id" yaml:"id"`
	Spawn     Vec3       `json:"spawn" yaml:"spawn"`
	Scale     Vec3       `json:"scale" yaml:"scale"`
	Speed     float64    `json:"speed" yaml:"speed"` // units per millisecond
	TurnAngle float64    `json:"turn_angle" yaml:"turn_angle"`
	LoseCue   string     `json:"lose_cue" yaml:"lose_cue"`
	PickupCue string     `json:"pickup_cue" yaml:"pickup_cue"`
	Keys      KeysConfig `json:"keys" yaml:"keys"`
}

type KeysConfig struct {
	Forward   string `json:"forward" yaml:"forward"`
	Back      string `json:"back" yaml:"back"`
	Left      string `json:"left" yaml:"left"`
	Right     string `json:"right" yaml:"right"`
	TurnLeft  string `json:"turn_left" yaml:"turn_left"`
	TurnRight string `json:"turn_right" yaml:"turn_right"`
	Pause     string `json:"pause" yaml:"pause"`
	Camera    string `json:"camera" yaml:"camera"`
	Menu      string `json:"menu" yaml:"menu"`
}

type SoundConfig struct {
	ID        string        `json:"id" yaml:"id"`
	Frequency float64       `json:"frequency" yaml:"frequency"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Volume    float64       `json:"volume" yaml:"volume"`
	Pitch     float64       `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Pan       float64       `json:"pan,omitempty" yaml:"pan,omitempty"`
	Loop      bool          `json:"loop,omitempty" yaml:"loop,omitempty"`
	Category  string        `json:"category,omitempty" yaml:"category,omitempty"`
}

// PropConfig places one collidable actor.
type PropConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Position Vec3    `json:"position" yaml:"position"`
	Scale    Vec3    `json:"scale" yaml:"scale"`
	Shape    string  `json:"shape,omitempty" yaml:"shape,omitempty"` // box or sphere
	Radius   float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Spin     float64 `json:"spin,omitempty" yaml:"spin,omitempty"` // degrees per frame about +Y
	Pulse    float64 `json:"pulse,omitempty" yaml:"pulse,omitempty"`
	Cue      string  `json:"cue,omitempty" yaml:"cue,omitempty"`
}

type EnemyConfig struct {
	PropConfig `json:",inline" yaml:",inline"`
	Range      float64 `json:"range" yaml:"range"`
	Step       float64 `json:"step" yaml:"step"`
}

type ObstacleConfig struct {
	PropConfig `json:",inline" yaml:",inline"`
	Axis       Vec3          `json:"axis" yaml:"axis"`
	Amplitude  float64       `json:"amplitude" yaml:"amplitude"`
	Period     time.Duration `json:"period" yaml:"period"`
}

// LayerConfig is one map image loaded into level geometry.
type LayerConfig struct {
	Image      string   `json:"image" yaml:"image"`
	ScaleX     float64  `json:"scale_x" yaml:"scale_x"`
	ScaleZ     float64  `json:"scale_z" yaml:"scale_z"`
	Height     float64  `json:"height" yaml:"height"`
	Offset     Vec3     `json:"offset" yaml:"offset"`
	Archetypes []string `json:"archetypes,omitempty" yaml:"archetypes,omitempty"`
}

type LevelConfig struct {
	Name       string           `json:"name" yaml:"name"`
	Enemies    []EnemyConfig    `json:"enemies,omitempty" yaml:"enemies,omitempty"`
	Obstacles  []ObstacleConfig `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	Pickups    []PropConfig     `json:"pickups,omitempty" yaml:"pickups,omitempty"`
	Zones      []PropConfig     `json:"zones,omitempty" yaml:"zones,omitempty"`
	Decorators []PropConfig     `json:"decorators,omitempty" yaml:"decorators,omitempty"`
	Layers     []LayerConfig    `json:"layers,omitempty" yaml:"layers,omitempty"`
}

type ServerConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Listen  string `json:"listen" yaml:"listen"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
}

// Level returns the 1-based level n.
func (c *Config) Level(n int) (LevelConfig, bool) {
	if n < 1 || n > len(c.Levels) {
		return LevelConfig{}, false
	}
	return c.Levels[n-1], true
}

// FinalLevel is the number of the last level.
func (c *Config) FinalLevel() int { return len(c.Levels) }

// FrameInterval is the wall time between frames at the target rate.
func (c *Config) FrameInterval() time.Duration {
	if c.Game.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Game.FPS)
}
