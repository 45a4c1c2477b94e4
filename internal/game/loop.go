package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// Loop drives a Game at a fixed rate. Each tick drains the host's pending
// terminal events into the game's input before updating. Frames advance by
// exactly one interval of game time, however late the tick fires.
type Loop struct {
	game     *Game
	interval time.Duration
	events   <-chan tcell.Event
	onFrame  func(g *Game)
	logger   log.Log
}

// NewLoop builds a loop. events may be nil; onFrame, if set, runs after
// every update, e.g. to draw.
func NewLoop(g *Game, interval time.Duration, events <-chan tcell.Event, onFrame func(g *Game), logger log.Log) *Loop {
	if logger == nil {
		logger = log.NewNop()
	}
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{
		game:     g,
		interval: interval,
		events:   events,
		onFrame:  onFrame,
		logger:   logger.With(log.String("component", "loop")),
	}
}

// Run updates the game until ctx is cancelled or the menu requests exit.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	f := l.game.Frame()
	l.logger.Info("frame loop started", log.Duration("interval", l.interval))
	defer func() {
		l.logger.Info("frame loop stopped", log.Uint64("frames", f.Index))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
		}

		if l.events != nil {
			l.game.Input().Drain(l.events)
		}
		f = f.Next(l.interval)
		if err := l.game.Update(f); err != nil {
			return err
		}
		if l.onFrame != nil {
			l.onFrame(l.game)
		}
		if l.game.ExitRequested() {
			return nil
		}
	}
}

// Step runs n frames back to back without waiting, for tests and replays.
func (l *Loop) Step(n int) error {
	f := l.game.Frame()
	for range n {
		f = f.Next(l.interval)
		if err := l.game.Update(f); err != nil {
			return err
		}
	}
	return nil
}
