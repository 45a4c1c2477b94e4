package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodeaths/zerodeaths/internal/config"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/registry"
	"github.com/zerodeaths/zerodeaths/internal/game"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"run", "validate", "levels"} {
		assert.Contains(t, out, sub, "Help missing %q command", sub)
	}
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in defaults: ok (2 levels, 4 sounds)")

	path := writeConfig(t, "game:\n  fps: 30\n")
	out, err = execute(t, "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": ok")
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := writeConfig(t, "game:\n  fps: -1\n")
	_, err := execute(t, "validate", "--config", path)
	assert.ErrorIs(t, err, config.ErrInvalid)

	path = writeConfig(t, "gmae: {}\n")
	_, err = execute(t, "validate", "--config", path)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLevels(t *testing.T) {
	out, err := execute(t, "levels")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "courtyard")
	assert.Contains(t, lines[2], "gauntlet")

	out, err = execute(t, "levels", "--json")
	require.NoError(t, err)
	var summaries []LevelSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, LevelSummary{Number: 2, Name: "gauntlet", Enemies: 2, Obstacles: 2, Pickups: 2}, summaries[1])
}

func TestRunHeadless(t *testing.T) {
	path := writeConfig(t, `
game:
  log_level: silent
levels:
  - name: only
    pickups:
      - id: pickup 1
        position: [0, 5, 1]
        scale: [2, 2, 2]
`)
	out, err := execute(t, "run", "--config", path, "--headless", "--frames", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Death Count: 0")
	assert.Contains(t, out, "Pickups left 0")
}

func TestRunRejectsUnknownLevel(t *testing.T) {
	_, err := execute(t, "run", "--headless", "--frames", "1", "--level", "9", "--log-level", "silent")
	require.Error(t, err)
}

func TestDraw(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	defer s.Fini()
	s.SetSize(80, 24)

	cfg := config.Default()
	cfg.Game.Cameras = []string{"top down"}
	cfg.Levels[0].Pickups[0].Position = config.Vec3{0, 5, 20}
	g, err := game.New(cfg, events.NewDispatcher(nil), registry.New(nil), nil)
	require.NoError(t, err)
	defer g.Close()
	require.NoError(t, g.Start())

	draw(s, g)
	cells, w, h := s.GetContents()
	require.Equal(t, 80, w)
	require.Equal(t, 24, h)

	screen := func(row int) string {
		var b strings.Builder
		for col := 0; col < w; col++ {
			if r := cells[row*w+col].Runes; len(r) > 0 {
				b.WriteRune(r[0])
			} else {
				b.WriteRune(' ')
			}
		}
		return b.String()
	}
	var all strings.Builder
	for row := 0; row < h; row++ {
		all.WriteString(screen(row))
		all.WriteByte('\n')
	}
	text := all.String()

	assert.Contains(t, text, "@", "player")
	assert.Contains(t, text, "*", "pickup")
	assert.Contains(t, text, "Death Count: 0")
	assert.Contains(t, screen(2), "Play", "the game starts in the menu")
}
