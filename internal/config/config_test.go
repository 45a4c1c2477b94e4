package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 2, c.FinalLevel())
	assert.Equal(t, time.Second/60, c.FrameInterval())

	l, ok := c.Level(1)
	require.True(t, ok)
	assert.Equal(t, "courtyard", l.Name)
	_, ok = c.Level(3)
	assert.False(t, ok)
	_, ok = c.Level(0)
	assert.False(t, ok)
}

func TestDecodeEmptyYieldsDefaults(t *testing.T) {
	c, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	c, err := Decode(strings.NewReader(`
game:
  fps: 30
  log_level: debug
player:
  spawn: [1, 2, 3]
  speed: 0.1
sounds:
  - id: lose
    frequency: 200
    duration: 250ms
    volume: 0.5
  - id: pickup
    frequency: 900
    duration: 1s
    volume: 1
    loop: true
`))
	require.NoError(t, err)

	assert.Equal(t, 30, c.Game.FPS)
	assert.Equal(t, "debug", c.Game.LogLevel)
	assert.Equal(t, "Zero Deaths", c.Game.Title, "untouched keys keep their default")
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, c.Player.Spawn.Vec())
	assert.Equal(t, "w", c.Player.Keys.Forward)
	require.Len(t, c.Sounds, 2, "lists replace the default list")
	assert.Equal(t, 250*time.Millisecond, c.Sounds[0].Duration)
	assert.True(t, c.Sounds[1].Loop)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("game:\n  fsp: 30\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsWrongVectorLength(t *testing.T) {
	_, err := Decode(strings.NewReader("player:\n  spawn: [1, 2]\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Default()
	c.Game.FPS = 0
	c.Game.StartLevel = 9
	c.Game.LogLevel = "loud"
	c.Player.Speed = -1
	c.Sounds = append(c.Sounds, SoundConfig{ID: "lose", Frequency: 100, Volume: 2})
	c.Levels[0].Pickups = append(c.Levels[0].Pickups, PropConfig{ID: "player", Scale: Vec3{1, 1, 1}})
	c.Levels[0].Zones = append(c.Levels[0].Zones, PropConfig{ID: "z", Scale: Vec3{1, 0, 1}, Shape: "cone"})
	c.Server = ServerConfig{Enabled: true}

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	msg := err.Error()
	for _, field := range []string{
		"game.fps",
		"game.start_level",
		"game.log_level",
		"player.speed",
		"sounds[4].id",
		"sounds[4].volume",
		"levels[0].pickups[1].id",
		"levels[0].zones[1].scale",
		"levels[0].zones[1].shape",
		"server.listen",
	} {
		assert.Contains(t, msg, field)
	}
}

func TestValidateErrorsCarryCode(t *testing.T) {
	c := Default()
	c.Player.ID = ""
	err := c.Validate()
	require.Error(t, err)

	var found bool
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		if o, ok := oops.AsOops(e); ok && o.Code() == "CONFIG_INVALID" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateUnknownCueReference(t *testing.T) {
	c := Default()
	c.Player.LoseCue = "scream"
	assert.ErrorContains(t, c.Validate(), "player.lose_cue")
}

func TestLoadResolvesRelativeImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
levels:
  - name: maze
    layers:
      - image: maps/level1.png
        scale_x: 10
        scale_z: 10
        height: 5
        offset: [0, 0, 0]
        archetypes: [cube]
game:
  start_level: 1
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Levels, 1)
	assert.Equal(t, filepath.Join(dir, "maps", "level1.png"), c.ResolvePath(c.Levels[0].Layers[0].Image))
	assert.Equal(t, "/abs/x.png", c.ResolvePath("/abs/x.png"))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeRoundTripsDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))
	assert.Contains(t, buf.String(), "start_level: 1")

	c, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
