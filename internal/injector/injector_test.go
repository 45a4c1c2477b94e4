package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodeaths/zerodeaths/internal/config"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/game"
)

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Game.LogLevel = "silent"
	return cfg
}

func TestInitializeRuntime(t *testing.T) {
	exited := false
	rt, cleanup, err := InitializeRuntime(quietConfig(), []game.Option{game.WithExit(func() { exited = true })})
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, rt.Server, "the debug server is off by default")
	require.NotNil(t, rt.Game)
	assert.Same(t, rt.Dispatcher, rt.Game.Dispatcher())
	assert.Same(t, rt.Registry, rt.Game.Registry())

	require.NoError(t, rt.Game.Start())
	require.NoError(t, rt.Game.Menu().Click("exit"))
	assert.True(t, exited)

	families, err := rt.Metrics.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "zerodeaths_events_published_total", "the collector observes the dispatcher")
}

func TestInitializeRuntimeWithServer(t *testing.T) {
	cfg := quietConfig()
	cfg.Server.Enabled = true
	cfg.Server.Listen = "127.0.0.1:0"

	rt, cleanup, err := InitializeRuntime(cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, rt.Server)
	require.NoError(t, rt.Dispatcher.Publish(events.Pause()))
	assert.Zero(t, rt.Server.Feed().Clients())
}

func TestInitializeRuntimeRejectsLogLevel(t *testing.T) {
	cfg := quietConfig()
	cfg.Game.LogLevel = "chatty"
	_, _, err := InitializeRuntime(cfg, nil)
	assert.Error(t, err)
}
