package component

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// DefaultSampleRate is the mixer output rate.
const DefaultSampleRate = beep.SampleRate(44100)

// CategoryMenu cues keep playing while the game is paused.
const CategoryMenu = "menu"

// Cue describes a synthesized sound effect.
type Cue struct {
	ID        string
	Frequency float64       // Hz
	Duration  time.Duration // one pass; loops repeat it
	Volume    float64       // 0..1
	Pitch     float64       // -1..1, one octave down or up
	Pan       float64       // -1..1, left to right
	Loop      bool
	Category  string
}

type playback struct {
	cue     Cue
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	pan     *effects.Pan
	level   float64
	stopped bool
	done    bool
}

// Stream ends the instance once stopped, so the mixer drops it.
func (p *playback) Stream(samples [][2]float64) (int, bool) {
	if p.stopped {
		return 0, false
	}
	n, ok := p.volume.Stream(samples)
	if !ok || n < len(samples) {
		p.done = true
	}
	return n, ok
}

func (p *playback) Err() error { return nil }

// SoundManager plays cues through a beep mixer. Output is the streamer the
// host hands to its speaker; every mutation and every Stream call share one
// lock.
type SoundManager struct {
	*Pausable

	mu         sync.Mutex
	sampleRate beep.SampleRate
	cues       map[string]Cue
	instances  []*playback
	mixer      *beep.Mixer
	master     *effects.Volume
	masterVol  float64
	attenuate  float64
	logger     log.Log
}

// SoundConfig configures a SoundManager.
type SoundConfig struct {
	SampleRate   beep.SampleRate
	MasterVolume float64
	Logger       log.Log

	// AttenuationDistance is where a positional cue drops to half volume.
	AttenuationDistance float64
}

func NewSoundManager(d *events.Dispatcher, cfg SoundConfig) (*SoundManager, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.AttenuationDistance <= 0 {
		cfg.AttenuationDistance = 100
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	mixer := &beep.Mixer{}
	s := &SoundManager{
		sampleRate: cfg.SampleRate,
		cues:       make(map[string]Cue),
		mixer:      mixer,
		master:     &effects.Volume{Streamer: mixer, Base: 2},
		attenuate:  cfg.AttenuationDistance,
		logger:     logger.With(log.String("component", "sound")),
	}
	s.setMasterLocked(cfg.MasterVolume)

	p, err := NewPausable(d, PausableConfig{
		Name:     "sound",
		Body:     s.tick,
		OnPause:  func() { s.pauseCategories(true) },
		OnResume: func() { s.pauseCategories(false) },
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	s.Pausable = p
	if err := p.Subscribe(events.CategorySound, s.handleSound); err != nil {
		return nil, err
	}
	return s, nil
}

// Output is the mixed stream for the speaker. It never ends; silence is
// emitted when nothing plays.
func (s *SoundManager) Output() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.master.Stream(samples)
	})
}

func (s *SoundManager) SampleRate() beep.SampleRate { return s.sampleRate }

// Add registers a cue. An existing id is rejected.
func (s *SoundManager) Add(c Cue) error {
	c.ID = strings.TrimSpace(c.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cues[c.ID]; ok {
		return oops.Code("DUPLICATE_CUE").With("cue", c.ID).Wrap(ErrDuplicateCue)
	}
	c.Volume = clamp(c.Volume, 0, 1)
	c.Pitch = clamp(c.Pitch, -1, 1)
	c.Pan = clamp(c.Pan, -1, 1)
	s.cues[c.ID] = c
	return nil
}

// Cues lists registered cue ids.
func (s *SoundManager) Cues() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.cues))
	for id := range s.cues {
		out = append(out, id)
	}
	return out
}

func (s *SoundManager) tone(c Cue) beep.Streamer {
	freq := c.Frequency * math.Pow(2, c.Pitch)
	if freq <= 0 || freq >= float64(s.sampleRate)/2 {
		freq = 440
	}
	dur := c.Duration
	if dur <= 0 {
		dur = 150 * time.Millisecond
	}
	once := func() beep.Streamer {
		sine, err := generators.SineTone(s.sampleRate, freq)
		if err != nil {
			return beep.Silence(0)
		}
		return beep.Take(s.sampleRate.N(dur), sine)
	}
	if c.Loop {
		return beep.Iterate(once)
	}
	return once()
}

func (s *SoundManager) play(id string, level, pan float64) error {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cues[id]
	if !ok {
		return oops.Code("UNKNOWN_CUE").With("cue", id).Wrap(ErrUnknownCue)
	}
	p := &playback{cue: c, level: level}
	p.ctrl = &beep.Ctrl{Streamer: s.tone(c), Paused: s.IsPaused() && c.Category != CategoryMenu}
	p.pan = &effects.Pan{Streamer: p.ctrl, Pan: pan}
	p.volume = &effects.Volume{Streamer: p.pan, Base: 2}
	setLevel(p.volume, level)
	s.instances = append(s.instances, p)
	s.mixer.Add(p)
	return nil
}

// Play2D starts a new instance of the cue with its configured volume and pan.
func (s *SoundManager) Play2D(id string) error {
	s.mu.Lock()
	c, ok := s.cues[strings.TrimSpace(id)]
	s.mu.Unlock()
	if !ok {
		return oops.Code("UNKNOWN_CUE").With("cue", id).Wrap(ErrUnknownCue)
	}
	return s.play(id, c.Volume, c.Pan)
}

// Play3D starts the cue panned and attenuated for an emitter heard from listener.
func (s *SoundManager) Play3D(id string, listener events.Listener, emitter mgl64.Vec3) error {
	s.mu.Lock()
	c, ok := s.cues[strings.TrimSpace(id)]
	s.mu.Unlock()
	if !ok {
		return oops.Code("UNKNOWN_CUE").With("cue", id).Wrap(ErrUnknownCue)
	}
	pan, gain := Spatialize(listener, emitter, s.attenuate)
	return s.play(id, c.Volume*gain, clamp(c.Pan+pan, -1, 1))
}

// Spatialize derives stereo pan and distance gain. Pan is the emitter
// direction projected on the listener's right vector; gain halves at
// halfDistance.
func Spatialize(listener events.Listener, emitter mgl64.Vec3, halfDistance float64) (pan, gain float64) {
	to := emitter.Sub(listener.Position)
	dist := to.Len()
	if dist == 0 {
		return 0, 1
	}
	right := listener.Forward.Cross(listener.Up)
	if right.Len() > 0 {
		pan = clamp(to.Normalize().Dot(right.Normalize()), -1, 1)
	}
	if halfDistance <= 0 {
		return pan, 1
	}
	return pan, 1 / (1 + dist/halfDistance)
}

// Pause pauses the first playing instance of the cue.
func (s *SoundManager) Pause(id string) bool {
	return s.first(id, func(p *playback) bool {
		if p.ctrl.Paused {
			return false
		}
		p.ctrl.Paused = true
		return true
	})
}

// Resume resumes the first paused instance of the cue.
func (s *SoundManager) Resume(id string) bool {
	return s.first(id, func(p *playback) bool {
		if !p.ctrl.Paused {
			return false
		}
		p.ctrl.Paused = false
		return true
	})
}

// Stop ends the first live instance of the cue.
func (s *SoundManager) Stop(id string) bool {
	return s.first(id, func(p *playback) bool {
		p.stopped = true
		return true
	})
}

// SetVolume sets every live instance of the cue, clamped to 0..1.
func (s *SoundManager) SetVolume(id string, volume float64) bool {
	volume = clamp(volume, 0, 1)
	return s.all(id, func(p *playback) {
		p.level = volume
		setLevel(p.volume, volume)
	})
}

// ChangeVolume adjusts every live instance of the cue. Changes that would
// leave 0..1 are ignored.
func (s *SoundManager) ChangeVolume(id string, delta float64) bool {
	return s.all(id, func(p *playback) {
		v := p.level + delta
		if v < 0 || v > 1 {
			return
		}
		p.level = v
		setLevel(p.volume, v)
	})
}

func (s *SoundManager) SetMasterVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMasterLocked(v)
}

func (s *SoundManager) ChangeMasterVolume(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMasterLocked(s.masterVol + delta)
}

func (s *SoundManager) MasterVolume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterVol
}

func (s *SoundManager) setMasterLocked(v float64) {
	s.masterVol = clamp(v, 0, 1)
	setLevel(s.master, s.masterVol)
}

// Playing counts live instances of the cue, paused ones included.
func (s *SoundManager) Playing(id string) int {
	n := 0
	s.all(id, func(*playback) { n++ })
	return n
}

// Volume is the level of the first live instance of the cue.
func (s *SoundManager) Volume(id string) (float64, bool) {
	var level float64
	ok := s.first(id, func(p *playback) bool {
		level = p.level
		return true
	})
	return level, ok
}

// Active counts every live instance.
func (s *SoundManager) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.instances)
}

// StopAll ends every instance.
func (s *SoundManager) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.instances {
		p.stopped = true
	}
	s.instances = nil
	s.mixer.Clear()
}

func (s *SoundManager) first(id string, fn func(p *playback) bool) bool {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	for _, p := range s.instances {
		if p.cue.ID == id && fn(p) {
			return true
		}
	}
	return false
}

func (s *SoundManager) all(id string, fn func(p *playback)) bool {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	found := false
	for _, p := range s.instances {
		if p.cue.ID == id {
			fn(p)
			found = true
		}
	}
	return found
}

func (s *SoundManager) pauseCategories(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.instances {
		if p.cue.Category != CategoryMenu {
			p.ctrl.Paused = paused
		}
	}
}

func (s *SoundManager) pruneLocked() {
	live := s.instances[:0]
	for _, p := range s.instances {
		if !p.done && !p.stopped {
			live = append(live, p)
		}
	}
	clear(s.instances[len(live):])
	s.instances = live
}

func (s *SoundManager) tick(frame.Frame) {
	s.mu.Lock()
	s.pruneLocked()
	s.mu.Unlock()
}

func (s *SoundManager) handleSound(e events.Event) error {
	var err error
	switch e.Action {
	case events.OnPlay2D:
		cue, ok := events.PayloadAs[events.SoundCue](e)
		if !ok {
			s.malformed(e)
			return nil
		}
		err = s.Play2D(cue.ID)
	case events.OnPlay3D:
		p, ok := events.PayloadAs[events.Sound3D](e)
		if !ok {
			s.malformed(e)
			return nil
		}
		err = s.Play3D(p.ID, p.Listener, p.Emitter)
	case events.OnStop:
		cue, ok := events.PayloadAs[events.SoundCue](e)
		if !ok {
			s.malformed(e)
			return nil
		}
		s.Stop(cue.ID)
	case events.OnVolumeDelta:
		v, ok := events.PayloadAs[events.VolumeDelta](e)
		if !ok {
			s.malformed(e)
			return nil
		}
		if v.ID == "" {
			s.ChangeMasterVolume(v.Delta)
		} else {
			s.ChangeVolume(v.ID, v.Delta)
		}
	}
	if err != nil {
		// A missing cue is a content problem, not a gameplay failure.
		s.logger.Warn("sound event not played", log.Stringer("event", e), log.Error(err))
	}
	return nil
}

func (s *SoundManager) malformed(e events.Event) {
	s.logger.Warn("ignoring malformed sound event", log.Stringer("event", e))
}

func setLevel(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
