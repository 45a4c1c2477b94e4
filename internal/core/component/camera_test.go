package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
)

func TestCameraCycleWrapsAndPublishes(t *testing.T) {
	d := events.NewDispatcher(nil)
	rec := record(t, d, events.CategoryCamera)
	c, err := NewCameraManager(d, []string{"follow", "top", "free"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "follow", c.Active())

	for range 3 {
		require.NoError(t, c.CycleActiveCamera())
	}
	assert.Equal(t, "follow", c.Active())
	require.Len(t, rec.got, 3)

	ref, ok := events.PayloadAs[events.CameraRef](rec.got[1])
	require.True(t, ok)
	assert.Equal(t, events.CameraRef{ID: "free", Index: 2}, ref)
}

func TestCameraSwitchesOnWin(t *testing.T) {
	d := events.NewDispatcher(nil)
	c, err := NewCameraManager(d, []string{"follow", "top"}, nil)
	require.NoError(t, err)

	require.NoError(t, d.Publish(events.Win(2)))
	assert.Equal(t, "top", c.Active())
	assert.Equal(t, 1, c.Index())

	require.NoError(t, c.SetActive("follow"))
	assert.ErrorIs(t, c.SetActive("missing"), ErrUnknownCamera)
	assert.Equal(t, 2, c.Len())
}

func TestCameraSingleCameraIgnoresWin(t *testing.T) {
	d := events.NewDispatcher(nil)
	c, err := NewCameraManager(d, []string{"only"}, nil)
	require.NoError(t, err)
	require.NoError(t, d.Publish(events.Win(2)))
	require.NoError(t, c.CycleActiveCamera())
	assert.Equal(t, "only", c.Active())

	_, err = NewCameraManager(d, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownCamera)

	c.Close()
	assert.Zero(t, d.SubscriberCount(events.CategoryPlayer))
}
