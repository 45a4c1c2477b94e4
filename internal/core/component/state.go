package component

import (
	"time"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// StateManager tracks the death count, the current level and play time.
// Winning past the final level ends the game.
type StateManager struct {
	*Pausable

	publisher  *events.Dispatcher
	deaths     int
	level      int
	finalLevel int
	played     time.Duration
	over       bool
	logger     log.Log
}

func NewStateManager(d *events.Dispatcher, startLevel, finalLevel int, logger log.Log) (*StateManager, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &StateManager{
		publisher:  d,
		level:      startLevel,
		finalLevel: finalLevel,
		logger:     logger.With(log.String("component", "state")),
	}
	p, err := NewPausable(d, PausableConfig{Name: "state", Body: s.tick, Logger: logger})
	if err != nil {
		return nil, err
	}
	s.Pausable = p
	if err := p.Subscribe(events.CategoryUI, s.handleUI); err != nil {
		return nil, err
	}
	if err := p.Subscribe(events.CategoryPlayer, s.handlePlayer); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StateManager) tick(f frame.Frame) {
	if !s.over {
		s.played += f.Elapsed
	}
}

func (s *StateManager) handleUI(e events.Event) error {
	if e.Action != events.OnDeathCountChange {
		return nil
	}
	d, ok := events.PayloadAs[events.Delta](e)
	if !ok {
		s.logger.Warn("ignoring malformed death count event", log.Stringer("event", e))
		return nil
	}
	s.deaths += d.Amount
	if s.deaths < 0 {
		s.deaths = 0
	}
	return nil
}

func (s *StateManager) handlePlayer(e events.Event) error {
	if e.Action != events.OnWin || s.over {
		return nil
	}
	lc, ok := events.PayloadAs[events.LevelChange](e)
	if !ok {
		s.logger.Warn("ignoring malformed win event", log.Stringer("event", e))
		return nil
	}
	if lc.Level > s.finalLevel {
		s.over = true
		s.logger.Info("game over",
			log.Int("deaths", s.deaths),
			log.Int("level", s.level),
			log.Duration("played", s.played),
		)
		return s.publisher.Publish(events.New(events.CategoryPlayer, events.OnGameOver, events.GameOver{
			DeathCount: s.deaths,
			Level:      s.level,
		}))
	}
	s.level = lc.Level
	return nil
}

func (s *StateManager) DeathCount() int         { return s.deaths }
func (s *StateManager) Level() int              { return s.level }
func (s *StateManager) FinalLevel() int         { return s.finalLevel }
func (s *StateManager) PlayTime() time.Duration { return s.played }
func (s *StateManager) IsOver() bool            { return s.over }

// NextLevel is the level a win from the current one leads to.
func (s *StateManager) NextLevel() int { return s.level + 1 }

// Reset starts a new game at level.
func (s *StateManager) Reset(level int) {
	s.deaths = 0
	s.level = level
	s.played = 0
	s.over = false
}
