// Package level turns map images into collidable level geometry: every
// non-white pixel whose colour names an archetype becomes one actor laid out
// on the XZ plane.
package level

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/oops"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/collision"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

var (
	Ignore = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, A: 255}
	Blue   = color.RGBA{B: 255, A: 255}
)

// Archetype is what a pixel colour turns into.
type Archetype struct {
	Name    string
	Prefix  string // id prefix, followed by the loader's running count
	Type    actor.Type
	Scale   mgl64.Vec3
	Texture string
}

// DefaultArchetypes: red is a tall wall, blue a pyramid obstacle.
func DefaultArchetypes() map[color.RGBA]Archetype {
	return map[color.RGBA]Archetype{
		Red: {
			Name:    "cube",
			Prefix:  "cube",
			Type:    actor.TypeDecorator,
			Scale:   mgl64.Vec3{2, 3, 1}.Mul(10),
			Texture: "walls",
		},
		Blue: {
			Name:    "pyramid",
			Prefix:  "pyramid",
			Type:    actor.TypeObstacle,
			Scale:   mgl64.Vec3{1, 1, 1}.Mul(10),
			Texture: "redCube",
		},
	}
}

// Loader builds actors from map images. Ids are numbered across every Load
// on the same loader, so layers loaded together never collide.
type Loader struct {
	archetypes map[color.RGBA]Archetype
	opts       []collision.Option
	count      *int
	logger     log.Log
}

// NewLoader uses the default archetypes. opts are applied to every built
// actor, typically the registry and response table.
func NewLoader(logger log.Log, opts ...collision.Option) *Loader {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Loader{
		archetypes: DefaultArchetypes(),
		opts:       opts,
		count:      new(int),
		logger:     logger.With(log.String("component", "level")),
	}
}

// Register maps a colour onto an archetype, replacing any previous one.
// White stays ignored.
func (l *Loader) Register(c color.RGBA, a Archetype) {
	if c == Ignore {
		return
	}
	l.archetypes[c] = a
}

// Restrict returns a loader limited to the named archetypes. It shares the
// id counter with l, so both can load layers of the same level.
func (l *Loader) Restrict(names ...string) (*Loader, error) {
	keep := make(map[color.RGBA]Archetype, len(names))
	for _, name := range names {
		found := false
		for c, a := range l.archetypes {
			if a.Name == name {
				keep[c] = a
				found = true
			}
		}
		if !found {
			return nil, oops.Code("UNKNOWN_ARCHETYPE").With("archetype", name).Wrap(ErrUnknownArchetype)
		}
	}
	return &Loader{archetypes: keep, opts: l.opts, count: l.count, logger: l.logger}, nil
}

// Count is how many actors the loader has built so far.
func (l *Loader) Count() int { return *l.count }

// Load scans img row by row. A pixel at (x, y) is placed at
// (x*scaleX, height, y*scaleZ) + offset.
func (l *Loader) Load(img image.Image, scaleX, scaleZ, height float64, offset mgl64.Vec3) []*collision.Actor {
	if img == nil {
		return nil
	}
	var out []*collision.Actor
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c == Ignore {
				continue
			}
			arch, ok := l.archetypes[c]
			if !ok {
				continue
			}
			translation := mgl64.Vec3{
				float64(x-b.Min.X) * scaleX,
				height,
				float64(y-b.Min.Y) * scaleZ,
			}.Add(offset)
			out = append(out, l.build(arch, translation))
		}
	}
	l.logger.Debug("map layer loaded", log.Int("actors", len(out)), log.Int("width", b.Dx()), log.Int("height", b.Dy()))
	return out
}

func (l *Loader) build(arch Archetype, at mgl64.Vec3) *collision.Actor {
	*l.count++
	id := fmt.Sprintf("%s %d", arch.Prefix, *l.count)
	base := actor.NewBase(id, arch.Type, actor.StatusActive, geometry.NewTransformAt(at, arch.Scale))
	base.Effect.Texture = arch.Texture
	base.Effect.Alpha = 1
	opts := append([]collision.Option{collision.Passive()}, l.opts...)
	return collision.NewBox(base, opts...)
}

// DecodeFile opens and decodes a PNG map.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Code("LEVEL_MAP_OPEN").With("path", path).Wrap(err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, oops.Code("LEVEL_MAP_DECODE").With("path", path).Wrap(fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return img, nil
}

// LoadFile decodes a PNG map and loads it.
func (l *Loader) LoadFile(path string, scaleX, scaleZ, height float64, offset mgl64.Vec3) ([]*collision.Actor, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(img, scaleX, scaleZ, height, offset), nil
}
