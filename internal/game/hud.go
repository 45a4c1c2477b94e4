package game

import (
	"fmt"

	"github.com/zerodeaths/zerodeaths/internal/core/actor"
	"github.com/zerodeaths/zerodeaths/internal/core/controller"
	"github.com/zerodeaths/zerodeaths/internal/core/frame"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
)

func (g *Game) wireHUD(logger log.Log) error {
	var err error
	if g.deaths, err = controller.NewDeathCountText(g.dispatcher, "death count", g.cfg.Game.MaxDeaths, logger); err != nil {
		return err
	}
	if g.health, err = controller.NewHealthProgress(g.dispatcher, "health", g.cfg.Game.MaxHealth, logger); err != nil {
		return err
	}

	deaths := controller.NewLabel("death count", actor.TypeUIText, input.Rect{X: 0, Y: 0, Width: 24, Height: 1})
	deaths.AttachController(g.deaths)
	health := controller.NewLabel("health", actor.TypeUITexture, input.Rect{X: 0, Y: 1, Width: 24, Height: 1})
	health.AttachController(g.health)
	g.hud = []*controller.Label{deaths, health}
	for _, l := range g.hud {
		l.Update(g.frame)
	}

	g.rebuildButtons()
	return nil
}

// rebuildButtons makes one hoverable label per button of the menu scene.
func (g *Game) rebuildButtons() {
	buttons := g.menu.Buttons()
	g.buttons = g.buttons[:0]
	for _, b := range buttons {
		l := controller.NewLabel(b.ID, actor.TypeUIButton, b.Bounds)
		l.SetText(b.Label)
		l.AttachController(controller.NewMouseHoverController(b.ID+" hover", g.input.Mouse, actor.ColorYellow))
		g.buttons = append(g.buttons, l)
	}
}

func (g *Game) updateHUD(f frame.Frame) {
	for _, l := range g.hud {
		l.Update(f)
	}
	if g.menu.IsVisible() {
		for _, b := range g.buttons {
			b.Update(f)
		}
	}
}

// HUD is the overlay text, top to bottom.
func (g *Game) HUD() []string {
	lines := make([]string, 0, len(g.hud)+3)
	for _, l := range g.hud {
		lines = append(lines, l.Text())
	}
	lines = append(lines,
		fmt.Sprintf("Level %d/%d  Pickups left %d", g.state.Level(), g.state.FinalLevel(), g.pickups),
		fmt.Sprintf("Camera %s", g.camera.Active()),
	)
	if g.player != nil {
		p := g.player.Transform().Translation
		lines = append(lines, fmt.Sprintf("Position %.1f %.1f %.1f", p.X(), p.Y(), p.Z()))
	}
	return lines
}

// Buttons are the labels of the current menu scene; empty while hidden.
func (g *Game) Buttons() []*controller.Label {
	if !g.menu.IsVisible() {
		return nil
	}
	return g.buttons
}

// HealthLabel exposes the health bar for hosts that draw it.
func (g *Game) HealthLabel() *controller.Label { return g.hud[1] }
