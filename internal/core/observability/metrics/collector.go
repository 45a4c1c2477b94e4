// Package metrics exports runtime counters for the event dispatcher, the
// object registry, collision detection and the frame loop to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/collision"
	"github.com/zerodeaths/zerodeaths/internal/core/events"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
)

const namespace = "zerodeaths"

var (
	_ events.Observer    = (*Collector)(nil)
	_ collision.Recorder = (*Collector)(nil)
)

// Collector holds the game's metrics. It observes the dispatcher and
// records collisions; the game loop feeds it frames and registry size.
type Collector struct {
	published     *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec
	handlers      prometheus.Histogram
	publishTime   *prometheus.HistogramVec
	actors        prometheus.Gauge
	frames        prometheus.Counter
	frameTime     prometheus.Histogram
	collisions    *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of published events by category and action",
		}, []string{"category", "action"}),
		handlerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_handler_errors_total",
			Help:      "Total number of publishes whose handlers returned errors, by category",
		}, []string{"category"}),
		handlers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_handlers_per_publish",
			Help:      "Number of handlers an event was delivered to",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		publishTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_publish_duration_seconds",
			Help:      "Time spent delivering an event to its handlers",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"category"}),
		actors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_actors",
			Help:      "Number of actors in the object registry",
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of frames updated",
		}),
		frameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_elapsed_seconds",
			Help:      "Game time between consecutive frames",
			Buckets:   []float64{0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25},
		}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Total number of detected overlaps by actor type pair",
		}, []string{"own", "other"}),
	}

	for _, col := range []prometheus.Collector{
		c.published, c.handlerErrors, c.handlers, c.publishTime,
		c.actors, c.frames, c.frameTime, c.collisions,
	} {
		if err := reg.Register(col); err != nil {
			return nil, oops.Code("METRICS_REGISTER").Wrap(err)
		}
	}
	return c, nil
}

func (c *Collector) OnPublish(e events.Event) {
	c.published.WithLabelValues(e.Category.String(), e.Action.String()).Inc()
}

func (c *Collector) OnDelivered(e events.Event, handlers int, err error, elapsed time.Duration) {
	c.handlers.Observe(float64(handlers))
	c.publishTime.WithLabelValues(e.Category.String()).Observe(elapsed.Seconds())
	if err != nil {
		c.handlerErrors.WithLabelValues(e.Category.String()).Inc()
	}
}

func (c *Collector) ObserveCollision(own, other actor.Type) {
	c.collisions.WithLabelValues(own.String(), other.String()).Inc()
}

// ObserveFrame counts a frame and its elapsed game time.
func (c *Collector) ObserveFrame(f frame.Frame) {
	c.frames.Inc()
	c.frameTime.Observe(f.Elapsed.Seconds())
}

// SetActors records the registry size.
func (c *Collector) SetActors(n int) {
	c.actors.Set(float64(n))
}
