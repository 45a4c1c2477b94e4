package component

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
)

func newSound(t *testing.T) (*events.Dispatcher, *SoundManager) {
	t.Helper()
	d := events.NewDispatcher(nil)
	s, err := NewSoundManager(d, SoundConfig{MasterVolume: 1})
	require.NoError(t, err)
	require.NoError(t, s.Add(Cue{ID: "hum", Frequency: 220, Duration: 50 * time.Millisecond, Volume: 1, Loop: true}))
	require.NoError(t, s.Add(Cue{ID: "lose", Frequency: 440, Duration: 10 * time.Millisecond, Volume: 0.5}))
	require.NoError(t, s.Add(Cue{ID: "buttonClick", Frequency: 880, Duration: 20 * time.Millisecond, Volume: 1, Category: CategoryMenu}))
	return d, s
}

// loud reports whether any sample in a fresh buffer of n is non-zero.
func loud(s *SoundManager, n int) bool {
	buf := make([][2]float64, n)
	s.Output().Stream(buf)
	for _, smp := range buf {
		if smp[0] != 0 || smp[1] != 0 {
			return true
		}
	}
	return false
}

func TestSoundAddRejectsDuplicates(t *testing.T) {
	_, s := newSound(t)
	err := s.Add(Cue{ID: "hum"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateCue)
	assert.ElementsMatch(t, []string{"hum", "lose", "buttonClick"}, s.Cues())
}

func TestSoundPlayUnknownCue(t *testing.T) {
	_, s := newSound(t)
	assert.ErrorIs(t, s.Play2D("missing"), ErrUnknownCue)
	assert.ErrorIs(t, s.Play3D("missing", events.Listener{}, mgl64.Vec3{}), ErrUnknownCue)
	assert.Zero(t, s.Active())
}

func TestSoundPlaysUntilOneShotEnds(t *testing.T) {
	_, s := newSound(t)
	assert.False(t, loud(s, 256), "silence before anything plays")

	require.NoError(t, s.Play2D("lose"))
	assert.Equal(t, 1, s.Playing("lose"))
	assert.True(t, loud(s, 256))

	// 10ms at 44.1kHz is 441 samples.
	loud(s, 1024)
	loud(s, 1024)
	assert.Zero(t, s.Playing("lose"))
}

func TestSoundPauseResumeStop(t *testing.T) {
	_, s := newSound(t)
	require.NoError(t, s.Play2D("hum"))
	require.NoError(t, s.Play2D("hum"))

	assert.True(t, s.Pause("hum"))
	assert.True(t, s.Pause("hum"), "second instance")
	assert.False(t, s.Pause("hum"), "nothing left to pause")
	assert.False(t, loud(s, 512))

	assert.True(t, s.Resume("hum"))
	assert.True(t, loud(s, 512))

	assert.True(t, s.Stop("hum"))
	assert.Equal(t, 1, s.Playing("hum"))
	assert.True(t, s.Stop("hum"))
	assert.False(t, s.Stop("hum"))
	assert.False(t, s.Pause("nope"))
	assert.False(t, loud(s, 512))
}

func TestSoundVolumeRules(t *testing.T) {
	_, s := newSound(t)
	require.NoError(t, s.Play2D("lose"))

	v, ok := s.Volume("lose")
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)

	assert.True(t, s.ChangeVolume("lose", 0.25))
	v, _ = s.Volume("lose")
	assert.InDelta(t, 0.75, v, 1e-9)

	s.ChangeVolume("lose", 0.5)
	v, _ = s.Volume("lose")
	assert.InDelta(t, 0.75, v, 1e-9, "changes leaving 0..1 are ignored")

	assert.True(t, s.SetVolume("lose", 3))
	v, _ = s.Volume("lose")
	assert.InDelta(t, 1, v, 1e-9, "set volume clamps")

	s.SetVolume("lose", 0)
	assert.False(t, loud(s, 128))

	s.SetMasterVolume(2)
	assert.InDelta(t, 1, s.MasterVolume(), 1e-9)
	s.ChangeMasterVolume(-1.5)
	assert.Zero(t, s.MasterVolume())
}

func TestSoundEventsDrivePlayback(t *testing.T) {
	d, s := newSound(t)

	require.NoError(t, d.Publish(events.Play2D("hum")))
	assert.Equal(t, 1, s.Playing("hum"))

	require.NoError(t, d.Publish(events.New(events.CategorySound, events.OnVolumeDelta, events.VolumeDelta{Delta: -0.5})))
	assert.InDelta(t, 0.5, s.MasterVolume(), 1e-9)

	require.NoError(t, d.Publish(events.New(events.CategorySound, events.OnPlay3D, events.Sound3D{
		ID:       "lose",
		Listener: events.Listener{Forward: mgl64.Vec3{0, 0, -1}, Up: mgl64.Vec3{0, 1, 0}},
		Emitter:  mgl64.Vec3{50, 0, 0},
	})))
	assert.Equal(t, 1, s.Playing("lose"))

	require.NoError(t, d.Publish(events.New(events.CategorySound, events.OnStop, events.SoundCue{ID: "hum"})))
	assert.Zero(t, s.Playing("hum"))

	require.NoError(t, d.Publish(events.Play2D("missing")), "a missing cue is not a handler failure")
	require.NoError(t, d.Publish(events.New(events.CategorySound, events.OnPlay2D, events.Delta{Amount: 1})))
}

func TestSoundMenuPauseKeepsMenuCues(t *testing.T) {
	d, s := newSound(t)
	require.NoError(t, s.Play2D("hum"))
	require.NoError(t, d.Publish(events.Pause()))
	assert.False(t, loud(s, 256), "gameplay cues pause with the game")

	require.NoError(t, s.Play2D("buttonClick"))
	assert.True(t, loud(s, 256), "menu cues play while paused")

	require.NoError(t, s.Play2D("hum"))
	assert.Equal(t, 2, s.Playing("hum"))
	assert.True(t, s.Resume("hum"), "started paused")

	require.NoError(t, d.Publish(events.Play()))
	assert.False(t, s.Resume("hum"), "all resumed with the game")
}

func TestSpatialize(t *testing.T) {
	l := events.Listener{Forward: mgl64.Vec3{0, 0, -1}, Up: mgl64.Vec3{0, 1, 0}}

	pan, gain := Spatialize(l, mgl64.Vec3{10, 0, 0}, 100)
	assert.InDelta(t, 1, pan, 1e-9)
	assert.InDelta(t, 1/1.1, gain, 1e-9)

	pan, gain = Spatialize(l, mgl64.Vec3{-100, 0, 0}, 100)
	assert.InDelta(t, -1, pan, 1e-9)
	assert.InDelta(t, 0.5, gain, 1e-9)

	pan, _ = Spatialize(l, mgl64.Vec3{0, 0, -30}, 100)
	assert.InDelta(t, 0, pan, 1e-9, "straight ahead is centred")

	pan, gain = Spatialize(l, l.Position, 100)
	assert.Zero(t, pan)
	assert.Equal(t, 1.0, gain)
}
