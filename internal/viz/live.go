package viz

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

const (
	canvasWidth     = 90
	canvasHeight    = 30
	historyCapacity = 300
	frameInterval   = time.Second / 60
	gifPath         = "simulation.gif"
	// canvasStyle pads one column on the left.
	canvasLeftPad = 1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live terminal view of a running simulation. The left mouse
// button attracts particles to the cursor and the right button repels them.
type Model struct {
	cfg      config.Config
	capacity int
	logger   *log.Logger

	sim      *engine.Simulation
	canvas   *Canvas
	renderer *Renderer
	name     string

	target   *vec.Vec
	strength float64
	running  bool
	showHelp bool
	err      error

	energyHistory []float64
	fps           float64
	lastFrame     time.Time

	recording bool
	frames    []*image.Paletted
	status    string
}

// NewModel builds the simulation described by cfg and wraps it in a live
// view. name labels the header.
func NewModel(name string, cfg config.Config, capacity int, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		cfg:           cfg,
		capacity:      capacity,
		logger:        logger,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		name:          name,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reset rebuilds the simulation from the stored configuration.
func (m *Model) reset() error {
	sim, err := engine.New(m.capacity, m.cfg, engine.WithLogger(m.logger))
	if err != nil {
		return err
	}
	cam := (*Camera)(nil)
	if m.renderer != nil {
		cam = m.renderer.Camera
	}
	m.sim = sim
	m.renderer = NewRenderer(m.canvas, m.cfg.Extent(), m.cfg.Dim)
	if cam != nil {
		m.renderer.Camera = cam
	}
	m.strength = math.Abs(sim.AttractorStrength())
	m.target = nil
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	return nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the simulation one frame per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastFrame = now
		if m.running && m.err == nil {
			m.step()
		}
		m.renderer.Draw(m.sim.Particles())
		if m.recording {
			m.frames = append(m.frames, CanvasImage(m.canvas))
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
		}
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	case "+", "=":
		m.strength *= 1.25
	case "-", "_":
		m.strength /= 1.25
	case "g":
		m.toggleRecording()
	case "x":
		m.renderer.Camera.RotateX(0.1)
	case "X":
		m.renderer.Camera.RotateX(-0.1)
	case "y":
		m.renderer.Camera.RotateY(0.1)
	case "Y":
		m.renderer.Camera.RotateY(-0.1)
	case "z":
		m.renderer.Camera.RotateZ(0.1)
	case "Z":
		m.renderer.Camera.RotateZ(-0.1)
	case "pgup":
		m.renderer.Camera.ZoomIn()
	case "pgdown":
		m.renderer.Camera.ZoomOut()
	}
	return m, nil
}

// handleMouse maps the cursor into the domain. Only planar domains accept
// a cursor target.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.cfg.Dim == 3 {
		return
	}
	switch msg.Action {
	case tea.MouseActionRelease:
		m.target = nil
		return
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.sim.SetAttractorStrength(m.strength)
		case tea.MouseButtonRight:
			m.sim.SetAttractorStrength(-m.strength)
		default:
			return
		}
	case tea.MouseActionMotion:
		if m.target == nil {
			return
		}
	}
	col, row := msg.X-canvasLeftPad, msg.Y
	if col < 0 || col >= m.canvas.Width || row < 0 || row >= m.canvas.Height {
		m.target = nil
		return
	}
	p := m.renderer.CellToDomain(col, row)
	m.target = &p
}

// step runs one display frame of physics.
func (m *Model) step() {
	if m.target != nil {
		sign := math.Copysign(1, m.sim.AttractorStrength())
		m.sim.SetAttractorStrength(sign * m.strength)
	}
	if err := m.sim.Frame(m.target); err != nil {
		m.err = err
		m.logger.Error("frame failed", "err", err)
		return
	}
	energy := particle.Set(m.sim.Particles()).KineticEnergy()
	m.energyHistory = append(m.energyHistory, energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.status = "recording"
		return
	}
	m.recording = false
	// one capture per tick at 60Hz is 1.67 hundredths of a second
	if err := SaveGIF(gifPath, m.frames, 2); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
	}
	m.frames = nil
}

// View renders the canvas with a stats panel on the right.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	title := strings.ToUpper(m.name)
	s.WriteString(headerStyle.Render(GradientText(title, CurrentTheme.Primary, CurrentTheme.Secondary)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(SparkLow.Render("UNSTABLE") + "\n")
	case m.recording:
		s.WriteString(StatusRecording.Render("● REC") + "\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}
	s.WriteString("\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(5),
			asciigraph.Width(28),
			asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Model", m.sim.ModelName())
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Particles", fmt.Sprintf("%d / %d", m.sim.Len(), m.sim.Capacity()))
	s.WriteString(ProgressBar(float64(m.sim.Len())/float64(max(m.sim.Capacity(), 1)), 24) + "\n")
	row("Attractor", fmt.Sprintf("%.3g", m.strength))
	if m.target != nil {
		mode := "attract"
		if m.sim.AttractorStrength() < 0 {
			mode = "repel"
		}
		row("Cursor", fmt.Sprintf("%s (%.0f, %.0f)", mode, m.target.X, m.target.Y))
	}
	if d := m.sim.Densities(); len(d) > 0 {
		mean := 0.0
		for _, v := range d {
			mean += v
		}
		row("Density", fmt.Sprintf("%.3g", mean/float64(len(d))))
	}
	row("FPS", fmt.Sprintf("%.0f", m.fps))
	row("Theme", CurrentTheme.Name)
	if m.status != "" {
		s.WriteString(Subtle.Render(m.status) + "\n")
	}
	if m.err != nil {
		s.WriteString(Subtle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause R:Reset Q:Quit\nT:Theme G:Record ?:Help\nMouse L:Attract R:Repel"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  Mouse L  - Attract to cursor        ║
║  Mouse R  - Repel from cursor        ║
║  + / -    - Attractor strength       ║
║  x y z    - Rotate 3D camera         ║
║  PgUp/Dn  - Zoom 3D camera           ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive opens the live view in the alternate screen with mouse tracking.
func RunLive(name string, cfg config.Config, capacity int, logger *log.Logger) error {
	m, err := NewModel(name, cfg, capacity, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
