// Package gui is a desktop window for a running simulation. It draws the
// domain at one pixel per unit (scaled down to fit the screen) and lets the
// mouse steer the attractor.
package gui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
	"github.com/san-kum/partsim/internal/viz"
)

// Monochrome chrome; particles take their colours from the theme ramp.
var (
	ColBg     = color.RGBA{10, 10, 10, 255}
	ColAccent = color.RGBA{180, 180, 180, 255}
	ColCursor = color.RGBA{255, 255, 255, 60}
)

const (
	maxWindowWidth  = 1600
	maxWindowHeight = 900
	maxTelemetry    = 300
)

type App struct {
	Sim       *engine.Simulation
	Config    config.Config
	Capacity  int
	Title     string
	Running   bool
	Strength  float64
	Scale     float64
	Telemetry []float64

	// cursor target in domain units, nil when no button is held
	Target *vec.Vec

	logger *log.Logger
	err    error
}

// NewApp builds the simulation and sizes the window to the domain.
func NewApp(title string, cfg config.Config, capacity int, logger *log.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Capacity: capacity,
		Title:    title,
		Running:  true,
		Scale:    WindowScale(cfg.Extent()),
		logger:   logger,
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// WindowScale is the largest scale (at most 1) at which the domain's X/Y
// extent fits the maximum window size.
func WindowScale(extent vec.Vec) float64 {
	s := 1.0
	if extent.X > 0 {
		s = math.Min(s, maxWindowWidth/extent.X)
	}
	if extent.Y > 0 {
		s = math.Min(s, maxWindowHeight/extent.Y)
	}
	return s
}

func (a *App) reset() error {
	opts := []engine.Option{}
	if a.logger != nil {
		opts = append(opts, engine.WithLogger(a.logger))
	}
	sim, err := engine.New(a.Capacity, a.Config, opts...)
	if err != nil {
		return err
	}
	a.Sim = sim
	a.Strength = math.Abs(sim.AttractorStrength())
	a.Telemetry = a.Telemetry[:0]
	a.Target = nil
	a.err = nil
	return nil
}

// ToDomain maps window pixels to domain coordinates.
func (a *App) ToDomain(x, y int) vec.Vec {
	return vec.New2(float64(x)/a.Scale, float64(y)/a.Scale)
}

// Run opens the window and blocks until it is closed.
func Run(title string, cfg config.Config, capacity int, logger *log.Logger) error {
	a, err := NewApp(title, cfg, capacity, logger)
	if err != nil {
		return err
	}
	w, h := a.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("partsim :: " + title)
	ebiten.SetTPS(60)
	return ebiten.RunGame(a)
}

// Update handles input and advances one frame.
func (a *App) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.Running = !a.Running
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := a.reset(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		viz.NextTheme()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		a.Strength *= 1.25
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		a.Strength /= 1.25
	}

	a.Target = nil
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if (left || right) && a.Config.Dim != 3 {
		p := a.ToDomain(ebiten.CursorPosition())
		a.Target = &p
		if right {
			a.Sim.SetAttractorStrength(-a.Strength)
		} else {
			a.Sim.SetAttractorStrength(a.Strength)
		}
	}

	if !a.Running || a.err != nil {
		return nil
	}
	if err := a.Sim.Frame(a.Target); err != nil {
		a.err = err
		if a.logger != nil {
			a.logger.Error("frame failed", "err", err)
		}
		return nil
	}
	a.Telemetry = append(a.Telemetry, particle.Set(a.Sim.Particles()).KineticEnergy())
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	return nil
}

// Layout keeps the window at the scaled domain size.
func (a *App) Layout(_, _ int) (int, int) {
	ext := a.Config.Extent()
	return int(math.Ceil(ext.X * a.Scale)), int(math.Ceil(ext.Y * a.Scale))
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(ColBg)
	a.drawSim(screen)
	a.DrawTelemetry(screen)
	a.DrawHUD(screen)
}

func (a *App) status() string {
	switch {
	case a.err != nil:
		return "UNSTABLE"
	case a.Running:
		return "RUNNING"
	default:
		return "PAUSED"
	}
}

func (a *App) hud() string {
	return fmt.Sprintf("partsim :: %s  [%s]\n%d/%d particles  t=%.2fs  attractor %.3g\n%.0f FPS\n[SPACE] PAUSE  [R] RESET  [T] THEME  [+/-] STRENGTH  [Q] QUIT",
		a.Title, a.status(), a.Sim.Len(), a.Sim.Capacity(), a.Sim.Time(), a.Strength, ebiten.ActualFPS())
}
