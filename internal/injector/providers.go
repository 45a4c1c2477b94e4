// Package injector assembles the game runtime from a configuration.
// InitializeRuntime in wire_gen.go is generated from injector.go.
package injector

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zerodeaths/zerodeaths/internal/config"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/metrics"
	"github.com/zerodeaths/zerodeaths/internal/core/registry"
	"github.com/zerodeaths/zerodeaths/internal/game"
	"github.com/zerodeaths/zerodeaths/internal/server"
)

// Runtime is everything a host needs to run a game.
type Runtime struct {
	Config     *config.Config
	Logger     *log.Logger
	Metrics    *prometheus.Registry
	Collector  *metrics.Collector
	Dispatcher *events.Dispatcher
	Registry   *registry.Registry
	Game       *game.Game
	// Server is nil unless the config enables it.
	Server *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogConfig,
	log.Provide,
	wire.Bind(new(log.Log), new(*log.Logger)),
	prometheus.NewRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	metrics.NewCollector,
	ProvideDispatcher,
	registry.New,
	ProvideGame,
	ProvideServer,
	wire.Struct(new(Runtime), "*"),
)

// ProvideLogConfig maps the game section onto logger settings.
func ProvideLogConfig(cfg *config.Config) (log.Config, error) {
	level, err := log.ParseLevel(cfg.Game.LogLevel)
	if err != nil {
		return log.Config{}, err
	}
	lc := log.Config{Level: level, Encoding: cfg.Game.LogEncoding}
	if cfg.Game.LogFile != "" {
		lc.Output = []string{cfg.Game.LogFile}
	}
	return lc, nil
}

// ProvideDispatcher builds the event bus with the metrics collector observing it.
func ProvideDispatcher(logger log.Log, m *metrics.Collector) *events.Dispatcher {
	d := events.NewDispatcher(logger)
	d.AddObserver(m)
	return d
}

// ProvideGame wires the game. opts come from the host, e.g. a shared input state.
func ProvideGame(cfg *config.Config, d *events.Dispatcher, r *registry.Registry, logger log.Log, m *metrics.Collector, opts []game.Option) (*game.Game, func(), error) {
	g, err := game.New(cfg, d, r, logger, append([]game.Option{game.WithMetrics(m)}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return g, g.Close, nil
}

// ProvideServer returns nil when the debug server is disabled.
func ProvideServer(cfg *config.Config, d *events.Dispatcher, gatherer prometheus.Gatherer, logger log.Log) (*server.Server, func(), error) {
	if !cfg.Server.Enabled {
		return nil, func() {}, nil
	}
	sc := server.DefaultServerConfig()
	sc.ListenAddr = cfg.Server.Listen
	sc.Token = cfg.Server.Token
	s, err := server.NewServer(sc, d, gatherer, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			logger.Warn("debug server close failed", log.Error(err))
		}
	}, nil
}
