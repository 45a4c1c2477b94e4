package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/collision"
	"github.com/zerodeaths/zerodeaths/internal/core/controller"
	"github.com/zerodeaths/zerodeaths/internal/core/geometry"
	"github.com/zerodeaths/zerodeaths/internal/game"
)

// World units per terminal cell. Cells are about twice as tall as wide.
const (
	unitsPerCol = 2.0
	unitsPerRow = 4.0
	// maxBoxSamples bounds the work spent filling one large box.
	maxBoxSamples = 4096
)

var glyphs = map[actor.Type]rune{
	actor.TypePlayer:    '@',
	actor.TypeEnemy:     'E',
	actor.TypePickup:    '*',
	actor.TypeObstacle:  'X',
	actor.TypeDecorator: '#',
	actor.TypeZone:      '.',
}

// view maps world x/z onto screen cells around the player. In first
// person the player's look direction points up the screen; otherwise +Z does.
type view struct {
	screen       tcell.Screen
	origin       mgl64.Vec3
	right, ahead mgl64.Vec3
	cx, cy, w, h int
}

func newView(s tcell.Screen, player *collision.Actor, firstPerson bool, w, h int) view {
	v := view{
		screen: s,
		origin: player.Transform().Translation,
		right:  mgl64.Vec3{1, 0, 0},
		ahead:  mgl64.Vec3{0, 0, 1},
		cx:     w / 2,
		cy:     h / 2,
		w:      w,
		h:      h,
	}
	if firstPerson {
		look := player.Transform().Look()
		look[1] = 0
		if look.Len() > 1e-9 {
			v.ahead = look.Normalize()
			v.right = mgl64.Vec3{v.ahead.Z(), 0, -v.ahead.X()}
		}
	}
	return v
}

func (v view) plot(p mgl64.Vec3, r rune, style tcell.Style) {
	d := p.Sub(v.origin)
	col := v.cx + int(math.Round(d.Dot(v.right)/unitsPerCol))
	row := v.cy - int(math.Round(d.Dot(v.ahead)/unitsPerRow))
	if col < 0 || row < 0 || col >= v.w || row >= v.h {
		return
	}
	v.screen.SetContent(col, row, r, nil, style)
}

func (v view) box(lo, hi mgl64.Vec3, r rune, style tcell.Style) {
	stepX := max(unitsPerCol/2, (hi.X()-lo.X())/math.Sqrt(maxBoxSamples))
	stepZ := max(unitsPerCol/2, (hi.Z()-lo.Z())/math.Sqrt(maxBoxSamples))
	for x := lo.X(); x <= hi.X(); x += stepX {
		for z := lo.Z(); z <= hi.Z(); z += stepZ {
			v.plot(mgl64.Vec3{x, 0, z}, r, style)
		}
	}
}

func styleOf(a actor.Actor) tcell.Style {
	st := tcell.StyleDefault
	if c, ok := a.(*collision.Actor); ok {
		st = st.Foreground(rgb(c.Effect.DiffuseColor))
	}
	return st
}

func rgb(c mgl64.Vec3) tcell.Color {
	ch := func(v float64) int32 { return int32(math.Round(min(max(v, 0), 1) * 255)) }
	return tcell.NewRGBColor(ch(c.X()), ch(c.Y()), ch(c.Z()))
}

// draw renders the world around the player, the HUD along the bottom and
// the menu buttons on top.
func draw(s tcell.Screen, g *game.Game) {
	s.Clear()
	w, h := s.Size()
	hud := g.HUD()
	mapH := h - len(hud)

	if p := g.Player(); p != nil && mapH > 0 {
		v := newView(s, p, g.Camera().Active() == "first person", w, mapH)
		g.Registry().Each(func(a actor.Actor) {
			if a == actor.Actor(p) || !a.Status().Has(actor.StatusDrawn) {
				return
			}
			r, ok := glyphs[a.Type()]
			if !ok {
				return
			}
			st := styleOf(a)
			if c, ok := a.(*collision.Actor); ok {
				if b, ok := c.Primitive().(*geometry.Box); ok && a.Type() != actor.TypeEnemy {
					lo, hi := b.Bounds()
					v.box(lo, hi, r, st)
					return
				}
			}
			v.plot(a.Transform().Translation, r, st)
		})
		v.plot(p.Transform().Translation, glyphs[actor.TypePlayer], styleOf(p).Bold(true))
	}

	for i, line := range hud {
		text(s, 0, mapH+i, w, line, tcell.StyleDefault)
	}
	for _, b := range g.Buttons() {
		button(s, b)
	}
	s.Show()
}

func button(s tcell.Screen, b *controller.Label) {
	st := tcell.StyleDefault.Reverse(true)
	if b.Effect.DiffuseColor != actor.ColorWhite {
		st = st.Background(rgb(b.Effect.DiffuseColor)).Foreground(tcell.ColorBlack).Reverse(false)
	}
	r := b.Bounds()
	label := b.Text()
	for x := 0; x < r.Width; x++ {
		ch := ' '
		if x > 0 && x-1 < len(label) {
			ch = rune(label[x-1])
		}
		s.SetContent(r.X+x, r.Y, ch, nil, st)
	}
}

func text(s tcell.Screen, x, y, width int, line string, st tcell.Style) {
	for i, r := range []rune(line) {
		if x+i >= width {
			return
		}
		s.SetContent(x+i, y, r, nil, st)
	}
}
