// Package server is the game's debug endpoint: Prometheus metrics and a
// websocket feed of every published event.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// Server serves /metrics, /events and /healthz.
type Server struct {
	cfg        Config
	dispatcher *events.Dispatcher
	feed       *EventFeed
	http       *http.Server
	listener   net.Listener
	served     chan struct{}

	running atomic.Bool
	closed  atomic.Bool

	logger log.Log
}

// Config holds server configuration
type Config struct {
	ListenAddr string
	// Token, if set, is required on every request except /healthz.
	Token string

	MaxClients   int
	ClientBuffer int
	History      int

	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:        "127.0.0.1:9464",
		MaxClients:        16,
		ClientBuffer:      256,
		History:           64,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// NewServer attaches an event feed to d. Nothing listens until Start.
func NewServer(cfg Config, d *events.Dispatcher, gatherer prometheus.Gatherer, logger log.Log) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, oops.Code("SERVER_CONFIG").With("field", "listen_addr").Wrap(ErrInvalidConfig)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultServerConfig().ShutdownTimeout
	}
	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		logger:     logger.With(log.String("component", "server")),
	}
	s.feed = NewEventFeed(FeedConfig{
		MaxClients:   cfg.MaxClients,
		ClientBuffer: cfg.ClientBuffer,
		History:      cfg.History,
		WriteTimeout: cfg.WriteTimeout,
	}, logger)
	if d != nil {
		d.AddObserver(s.feed)
	}
	s.http = &http.Server{
		Handler:           s.routes(gatherer),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	return s, nil
}

func (s *Server) Feed() *EventFeed      { return s.feed }
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Addr is the bound address once started, e.g. after listening on port 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddr)
	if err != nil {
		s.running.Store(false)
		return oops.Code("SERVER_LISTEN").With("addr", s.cfg.ListenAddr).Wrap(errors.Join(ErrListenerFailed, err))
	}
	s.listener = ln
	s.served = make(chan struct{})

	go func() {
		defer close(s.served)
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("debug server failed", log.Error(err))
		}
	}()

	s.logger.Info("debug server listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the HTTP server down and disconnects feed clients. A stopped
// server cannot be started again.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}
	s.closed.Store(true)
	s.logger.Info("stopping debug server")

	err := s.http.Shutdown(ctx)
	s.feed.Close()
	if s.dispatcher != nil {
		s.dispatcher.RemoveObserver(s.feed)
	}
	<-s.served

	s.logger.Info("debug server stopped")
	if err != nil {
		return oops.Code("SERVER_SHUTDOWN").Wrap(err)
	}
	return nil
}

// Run starts the server and stops it when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.Stop(stopCtx)
}

// Close stops the server if it is running. Later Starts fail.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.running.Load() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.Stop(ctx)
	}
	s.feed.Close()
	if s.dispatcher != nil {
		s.dispatcher.RemoveObserver(s.feed)
	}
	return nil
}
