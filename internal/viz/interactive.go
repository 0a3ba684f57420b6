package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/config"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var presetInfo = map[string]string{
	"fountain": "jet from the floor",
	"rain":     "elastic drizzle",
	"swarm":    "no gravity, follow the mouse",
	"box3d":    "3d repulsive gas",
	"pool":     "sph water settling",
	"stream":   "sph jet into a basin",
	"drop3d":   "3d sph column",
}

// tunable lists the parameters offered on the config screen for every model.
var tunable = map[string][]string{
	config.ModelRepulsion: {"spawn.rate", "gravity.y", "attractor.strength", "repulsion.stiffness", "domain.damping"},
	config.ModelSPH:       {"spawn.rate", "gravity.y", "attractor.strength", "sph.stiffness", "sph.viscosity", "sph.tension"},
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type entry struct {
	model, preset string
}

type app struct {
	state    int
	cursor   int
	entries  []entry
	capacity int
	logger   *log.Logger

	cfg         *config.Config
	paramCursor int
	editing     bool
	editBuf     string
	err         error

	live Model
}

// NewInteractiveApp lists every preset of every model. A capacity of zero
// uses each preset's own.
func NewInteractiveApp(capacity int, logger *log.Logger) *app {
	var entries []entry
	for _, model := range config.ListModels() {
		for _, name := range config.ListPresets(model) {
			entries = append(entries, entry{model, name})
		}
	}
	return &app{state: stateMenu, entries: entries, capacity: capacity, logger: logger}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(k)
		case stateConfig:
			return m.configKey(k)
		}
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		e := m.entries[m.cursor]
		m.cfg = config.GetPreset(e.model, e.preset)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m app) params() []string { return tunable[m.cfg.Model] }

func (m app) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.params()
	name := names[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.err = m.cfg.SetParam(name, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e+") {
				m.editBuf += s
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(names)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		v, _ := m.cfg.Param(name)
		m.editing, m.editBuf = true, strconv.FormatFloat(v, 'g', -1, 64)
	case "left", "h":
		m.scale(name, 1/1.1)
	case "right", "l":
		m.scale(name, 1.1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m *app) scale(name string, f float64) {
	v, err := m.cfg.Param(name)
	if err != nil {
		return
	}
	m.err = m.cfg.SetParam(name, v*f)
}

func (m app) start() (tea.Model, tea.Cmd) {
	e := m.entries[m.cursor]
	capacity := m.capacity
	if capacity <= 0 {
		capacity = m.cfg.Capacity
	}
	live, err := NewModel(e.model+"/"+e.preset, *m.cfg, capacity, m.logger)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state = live, stateSim
	return m, live.Init()
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("PARTSIM") + "\n    " + Subtle.Render("particle simulation") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		label := fmt.Sprintf("%-10s %-9s", e.preset, e.model)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(label), descStyle.Render(presetInfo[e.preset])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render("  "+label), idleDescStyle.Render(presetInfo[e.preset])))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	e := m.entries[m.cursor]
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(e.preset)) + "\n    " + Subtle.Render(presetInfo[e.preset]) + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.params() {
		v, _ := m.cfg.Param(name)
		val := fmt.Sprintf("%12.4g", v)
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%12s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-20s", name)), descStyle.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-20s", name)), idleDescStyle.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + SparkLow.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// hints renders key/description pairs.
func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return strings.TrimRight(b.String(), " ")
}

// RunInteractive opens the preset picker. Esc inside a running simulation
// returns to its config screen.
func RunInteractive(capacity int, logger *log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(capacity, logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
