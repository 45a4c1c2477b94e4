package component

import (
	"slices"

	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

// CameraManager holds the ordered camera ids and which one is active.
type CameraManager struct {
	publisher *events.Dispatcher
	group     *events.Group
	ids       []string
	active    int
	winIndex  int
	logger    log.Log
}

// NewCameraManager activates the first camera. A Player OnWin switches to
// the camera at index 1 when there is one.
func NewCameraManager(d *events.Dispatcher, ids []string, logger log.Log) (*CameraManager, error) {
	if len(ids) == 0 {
		return nil, oops.Code("NO_CAMERAS").Wrap(ErrUnknownCamera)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	c := &CameraManager{
		publisher: d,
		group:     d.NewGroup("camera"),
		ids:       slices.Clone(ids),
		winIndex:  1,
		logger:    logger.With(log.String("component", "camera")),
	}
	if _, err := c.group.Subscribe(events.CategoryPlayer, c.handlePlayer); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CameraManager) Active() string { return c.ids[c.active] }
func (c *CameraManager) Index() int     { return c.active }
func (c *CameraManager) Len() int       { return len(c.ids) }

// CycleActiveCamera advances to the next camera, wrapping around.
func (c *CameraManager) CycleActiveCamera() error {
	return c.activate((c.active + 1) % len(c.ids))
}

// SetActive switches to the camera with the given id.
func (c *CameraManager) SetActive(id string) error {
	i := slices.Index(c.ids, id)
	if i < 0 {
		return oops.Code("UNKNOWN_CAMERA").With("camera", id).Wrap(ErrUnknownCamera)
	}
	return c.activate(i)
}

func (c *CameraManager) activate(i int) error {
	if i == c.active {
		return nil
	}
	c.active = i
	c.logger.Debug("camera changed", log.String("camera", c.ids[i]))
	return c.publisher.Publish(events.New(events.CategoryCamera, events.OnCameraCycle, events.CameraRef{
		ID:    c.ids[i],
		Index: i,
	}).From("camera"))
}

func (c *CameraManager) handlePlayer(e events.Event) error {
	if e.Action != events.OnWin || c.winIndex >= len(c.ids) {
		return nil
	}
	return c.activate(c.winIndex)
}

func (c *CameraManager) Close() {
	c.group.CancelAll()
}
