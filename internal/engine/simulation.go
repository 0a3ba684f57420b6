package engine

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/grid"
	"github.com/san-kum/partsim/internal/interact"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

type Option func(*Simulation)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDebugChecks enables invariant assertions after every force pass and
// a finiteness check after every step.
func WithDebugChecks() Option {
	return func(s *Simulation) { s.debug = true }
}

type densityModel interface {
	Densities() []float64
}

type Simulation struct {
	cfg      config.Config
	capacity int

	particles particle.Set
	grid      *grid.Grid
	model     interact.Model
	integ     particle.Integrator
	bounds    particle.Bounds
	gravity   vec.Vec
	attractor interact.Attractor
	spawner   *Spawner

	nextID int
	time   float64
	steps  int

	logger    *log.Logger
	debug     bool
	capLogged bool
}

// New creates a simulation holding at most capacity particles. The capacity
// argument overrides cfg.Capacity. Configuration errors wrap
// config.ErrInvalidConfig.
func New(capacity int, cfg config.Config, opts ...Option) (*Simulation, error) {
	cfg.Capacity = capacity
	if cfg.Spawn.Jitter == "" {
		cfg.Spawn.Jitter = config.JitterUniform
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	model, err := NewModel(&cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	integ, err := particle.NewIntegrator(cfg.Integrator)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	extent := cfg.Extent()
	g, err := grid.New(extent, cfg.Domain.CellSize)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	gravity := cfg.Gravity.Vec()
	if cfg.Dim == 2 {
		gravity.Z = 0
	}

	attractor := interact.Attractor{
		Strength:    cfg.Attractor.Strength,
		MinDistance: cfg.Attractor.MinDistance,
	}
	s := &Simulation{
		cfg:       cfg,
		capacity:  capacity,
		particles: make(particle.Set, 0, capacity),
		grid:      g,
		model:     model,
		integ:     integ,
		bounds:    particle.Bounds{Max: extent, Damping: cfg.Domain.Damping, Dim: cfg.Dim},
		gravity:   gravity,
		attractor: attractor,
		spawner:   NewSpawner(&cfg),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	nx, ny, nz := g.Dims()
	s.logger.Debug("simulation created",
		"model", model.Name(),
		"integrator", integ.Name(),
		"dim", cfg.Dim,
		"capacity", capacity,
		"grid", fmt.Sprintf("%dx%dx%d", nx, ny, nz))
	return s, nil
}

// Step advances the simulation by dt. A nil target disables the attractor
// for this step.
func (s *Simulation) Step(dt float64, target *vec.Vec) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}

	s.spawn(dt)
	s.grid.Rebuild(s.particles)
	s.model.Accumulate(s.particles, s.grid, dt)
	if s.debug {
		s.checkInvariants()
	}
	if target != nil {
		t := *target
		if s.cfg.Dim == 2 {
			t.Z = 0
		}
		s.attractor.Apply(s.particles, t, dt)
	}
	for i := range s.particles {
		s.particles[i].Integrate(dt, s.gravity, s.integ, s.bounds)
	}

	s.time += dt
	s.steps++

	if s.debug {
		for i := range s.particles {
			p := &s.particles[i]
			if !p.Position.IsFinite() || !p.Velocity.IsFinite() {
				return &StepError{Step: s.steps, Time: s.time, Wrapped: fmt.Errorf("%w: particle %d", ErrUnstable, p.ID)}
			}
		}
	}
	return nil
}

// Frame runs cfg.Substeps steps of cfg.Dt, the usual amount per rendered
// frame.
func (s *Simulation) Frame(target *vec.Vec) error {
	for i := 0; i < s.cfg.Substeps; i++ {
		if err := s.Step(s.cfg.Dt, target); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) spawn(dt float64) {
	n := s.spawner.Due(dt, s.capacity-len(s.particles))
	for i := 0; i < n; i++ {
		pos, vel := s.spawner.Next()
		s.add(pos, vel)
	}
	if len(s.particles) >= s.capacity && !s.capLogged && s.spawner.Rate > 0 {
		s.capLogged = true
		s.logger.Debug("capacity reached", "particles", len(s.particles), "t", s.time)
	}
}

func (s *Simulation) add(pos, vel vec.Vec) int {
	id := s.nextID
	s.nextID++
	s.particles = append(s.particles, particle.New(id, pos, vel, s.cfg.Spawn.Mass, s.cfg.Spawn.Radius))
	return id
}

// AddParticle places one particle by hand. It returns false without
// spawning when the population is at capacity.
func (s *Simulation) AddParticle(pos, vel vec.Vec) (int, bool) {
	if len(s.particles) >= s.capacity {
		return 0, false
	}
	if s.cfg.Dim == 2 {
		pos.Z, vel.Z = 0, 0
	}
	return s.add(pos, vel), true
}

func (s *Simulation) checkInvariants() {
	dm, ok := s.model.(densityModel)
	if !ok {
		return
	}
	if n, m := len(dm.Densities()), len(s.particles); n != m {
		panic(fmt.Sprintf("engine: density array has %d entries for %d particles", n, m))
	}
}

// Particles returns a copy of the current population.
func (s *Simulation) Particles() []particle.Particle {
	out := make([]particle.Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Densities returns a copy of the last SPH densities, or nil for models
// without a density field.
func (s *Simulation) Densities() []float64 {
	dm, ok := s.model.(densityModel)
	if !ok {
		return nil
	}
	d := dm.Densities()
	out := make([]float64, len(d))
	copy(out, d)
	return out
}

// Density returns the density of particle i from the last step, or 0 when
// the model has no density field.
func (s *Simulation) Density(i int) float64 {
	dm, ok := s.model.(densityModel)
	if !ok {
		return 0
	}
	d := dm.Densities()
	if i < 0 || i >= len(d) {
		return 0
	}
	return d[i]
}

func (s *Simulation) SetAttractorStrength(k float64) { s.attractor.Strength = k }

func (s *Simulation) AttractorStrength() float64 { return s.attractor.Strength }

func (s *Simulation) Len() int                { return len(s.particles) }
func (s *Simulation) Capacity() int           { return s.capacity }
func (s *Simulation) Time() float64           { return s.time }
func (s *Simulation) Steps() int              { return s.steps }
func (s *Simulation) ModelName() string       { return s.model.Name() }
func (s *Simulation) Bounds() particle.Bounds { return s.bounds }

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() config.Config { return s.cfg }
