package gui

import (
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/viz"
)

// SpeedColor maps a particle's speed, relative to the fastest one, onto the
// current theme ramp.
func SpeedColor(ramp viz.Ramp, speed, top float64) color.RGBA {
	t := 0.0
	if top > 0 {
		t = speed / top
	}
	r, g, b := ramp.At(t).RGB255()
	return color.RGBA{r, g, b, 255}
}

// drawSim draws the particles as filled disks. 3D domains are seen along Z,
// far particles first.
func (a *App) drawSim(screen *ebiten.Image) {
	ps := a.Sim.Particles()
	if a.Config.Dim == 3 {
		sortByDepth(ps)
	}
	top := 0.0
	for i := range ps {
		top = math.Max(top, ps[i].Velocity.Len())
	}
	ramp := viz.ThemeRamp(viz.CurrentTheme)
	s := float32(a.Scale)
	for i := range ps {
		p := &ps[i]
		col := SpeedColor(ramp, p.Velocity.Len(), top)
		r := max(float32(p.Radius)*s, 1)
		vector.DrawFilledCircle(screen, float32(p.Position.X)*s, float32(p.Position.Y)*s, r, col, true)
	}

	if a.Target != nil {
		x, y := float32(a.Target.X)*s, float32(a.Target.Y)*s
		vector.StrokeCircle(screen, x, y, 6, 1, ColCursor, true)
		vector.StrokeCircle(screen, x, y, 14, 1, ColCursor, true)
	}
}

// sortByDepth orders particles far (low Z) to near.
func sortByDepth(ps []particle.Particle) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Position.Z < ps[j].Position.Z })
}

func (a *App) DrawHUD(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, a.hud())
}

// DrawTelemetry plots the kinetic energy history in the bottom-left corner.
func (a *App) DrawTelemetry(screen *ebiten.Image) {
	if len(a.Telemetry) < 2 {
		return
	}

	_, h := a.Layout(0, 0)
	rectX, rectY := float32(10), float32(h-70)
	width, height := float32(300), float32(60)

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	n := float32(len(a.Telemetry))
	point := func(i int) (float32, float32) {
		norm := (a.Telemetry[i] - minVal) / (maxVal - minVal)
		return rectX + float32(i)/n*width, rectY + height - float32(norm)*height
	}
	px, py := point(0)
	for i := 1; i < len(a.Telemetry); i++ {
		x, y := point(i)
		vector.StrokeLine(screen, px, py, x, y, 1, ColAccent, true)
		px, py = x, y
	}
}
