package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/vec"
)

// Screen convention: X grows right, Y grows down, Z grows away from the
// viewer. A positive Y gravity pulls particles toward the bottom of the view.
const (
	DefaultWidth     = 1500.0
	DefaultHeight    = 600.0
	DefaultRadius    = 15.0
	DefaultCapacity  = 1500
	DefaultSpawnRate = 300.0
	DefaultDt        = 1.0 / 600
	DefaultSubsteps  = 10
	DefaultGravity   = 100.0
	DefaultDamping   = 0.5
)

const (
	ModelRepulsion = "repulsion"
	ModelSPH       = "sph"

	JitterUniform = "uniform"
	JitterPerlin  = "perlin"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name       string          `yaml:"name,omitempty"`
	Model      string          `yaml:"model"`
	Dim        int             `yaml:"dim"`
	Capacity   int             `yaml:"capacity"`
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	Substeps   int             `yaml:"substeps"`
	Seed       int64           `yaml:"seed"`
	Gravity    Vec3            `yaml:"gravity"`
	Domain     DomainConfig    `yaml:"domain"`
	Spawn      SpawnConfig     `yaml:"spawn"`
	Attractor  AttractorConfig `yaml:"attractor"`
	Repulsion  RepulsionConfig `yaml:"repulsion"`
	SPH        SPHConfig       `yaml:"sph"`
}

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3) Vec() vec.Vec { return vec.New(v.X, v.Y, v.Z) }

type DomainConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Depth    float64 `yaml:"depth"`
	CellSize float64 `yaml:"cell_size"`
	Damping  float64 `yaml:"damping"`
	// Scale is the number of screen pixels per domain unit, used only by
	// renderers.
	Scale float64 `yaml:"scale"`
}

type SpawnConfig struct {
	Rate             float64 `yaml:"rate"`
	Position         Vec3    `yaml:"position"`
	Velocity         Vec3    `yaml:"velocity"`
	PositionVariance float64 `yaml:"position_variance"`
	VelocityVariance float64 `yaml:"velocity_variance"`
	Jitter           string  `yaml:"jitter"`
	Radius           float64 `yaml:"radius"`
	Mass             float64 `yaml:"mass"`
}

type AttractorConfig struct {
	Strength    float64 `yaml:"strength"`
	MinDistance float64 `yaml:"min_distance"`
}

type RepulsionConfig struct {
	Stiffness float64 `yaml:"stiffness"`
}

type SPHConfig struct {
	H                float64 `yaml:"h"`
	RestDensity      float64 `yaml:"rest_density"`
	Stiffness        float64 `yaml:"stiffness"`
	Viscosity        float64 `yaml:"viscosity"`
	Tension          float64 `yaml:"tension"`
	TensionThreshold float64 `yaml:"tension_threshold"`
	Search           string  `yaml:"search"`
}

// DefaultConfig is the 2D fountain: particles spray from the middle of a
// 1500×600 box and collide through short-range repulsion.
func DefaultConfig() *Config {
	return &Config{
		Name:       "fountain",
		Model:      ModelRepulsion,
		Dim:        2,
		Capacity:   DefaultCapacity,
		Integrator: "euler",
		Dt:         DefaultDt,
		Substeps:   DefaultSubsteps,
		Gravity:    Vec3{Y: DefaultGravity},
		Domain: DomainConfig{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			CellSize: 2 * DefaultRadius,
			Damping:  DefaultDamping,
			Scale:    1,
		},
		Spawn: SpawnConfig{
			Rate:             DefaultSpawnRate,
			Position:         Vec3{X: DefaultWidth / 2, Y: DefaultHeight/2 - 1},
			Velocity:         Vec3{Y: 100},
			VelocityVariance: 0.5,
			Jitter:           JitterUniform,
			Radius:           DefaultRadius,
			Mass:             1,
		},
		Attractor: AttractorConfig{
			Strength:    300000,
			MinDistance: 1e-3,
		},
		Repulsion: RepulsionConfig{Stiffness: 3000},
		SPH: SPHConfig{
			H:                3 * DefaultRadius,
			RestDensity:      1,
			Stiffness:        1,
			Viscosity:        1,
			Tension:          1,
			TensionThreshold: 0.01,
			Search:           "grid",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of DefaultConfig so omitted keys keep their
// defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay decodes the YAML file at path on top of c. Keys missing from the
// file keep their current values.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; Config holds only values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Extent returns the domain size as a vector. Depth is zero in 2D.
func (c *Config) Extent() vec.Vec {
	if c.Dim == 2 {
		return vec.New(c.Domain.Width, c.Domain.Height, 0)
	}
	return vec.New(c.Domain.Width, c.Domain.Height, c.Domain.Depth)
}

// InteractionCutoff is the largest separation at which the selected model
// couples two particles.
func (c *Config) InteractionCutoff() float64 {
	if c.Model == ModelSPH {
		return c.SPH.H
	}
	return 2 * c.Spawn.Radius
}

func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	switch c.Model {
	case ModelRepulsion, ModelSPH:
	default:
		bad("unknown model %q", c.Model)
	}
	if c.Dim != 2 && c.Dim != 3 {
		bad("dim must be 2 or 3, got %d", c.Dim)
	}
	if c.Capacity <= 0 {
		bad("capacity must be positive, got %d", c.Capacity)
	}
	if c.Integrator != "euler" && c.Integrator != "leapfrog" {
		bad("unknown integrator %q", c.Integrator)
	}
	if !positive(c.Dt) {
		bad("dt must be positive, got %v", c.Dt)
	}
	if c.Substeps < 1 {
		bad("substeps must be at least 1, got %d", c.Substeps)
	}
	if !positive(c.Domain.Width) || !positive(c.Domain.Height) {
		bad("domain extent must be positive, got %vx%v", c.Domain.Width, c.Domain.Height)
	}
	if c.Dim == 3 && !positive(c.Domain.Depth) {
		bad("3D domain depth must be positive, got %v", c.Domain.Depth)
	}
	if !positive(c.Domain.CellSize) {
		bad("cell size must be positive, got %v", c.Domain.CellSize)
	}
	if c.Domain.Damping < 0 {
		bad("damping must not be negative, got %v", c.Domain.Damping)
	}
	if c.Spawn.Rate < 0 {
		bad("spawn rate must not be negative, got %v", c.Spawn.Rate)
	}
	if !positive(c.Spawn.Radius) {
		bad("particle radius must be positive, got %v", c.Spawn.Radius)
	}
	if !positive(c.Spawn.Mass) {
		bad("particle mass must be positive, got %v", c.Spawn.Mass)
	}
	if c.Spawn.PositionVariance < 0 || c.Spawn.VelocityVariance < 0 {
		bad("spawn variance must not be negative")
	}
	switch c.Spawn.Jitter {
	case "", JitterUniform, JitterPerlin:
	default:
		bad("unknown spawn jitter %q", c.Spawn.Jitter)
	}
	if c.Attractor.MinDistance < 0 {
		bad("attractor min distance must not be negative, got %v", c.Attractor.MinDistance)
	}
	if c.Model == ModelSPH {
		if c.SPH.H < 0 {
			bad("kernel radius must not be negative, got %v", c.SPH.H)
		} else if !positive(c.SPH.H) {
			bad("kernel radius must be positive, got %v", c.SPH.H)
		}
		switch c.SPH.Search {
		case "", "grid", "all_pairs":
		default:
			bad("unknown sph neighbor search %q", c.SPH.Search)
		}
	}
	if positive(c.Domain.CellSize) && c.usesGrid() && c.Domain.CellSize < c.InteractionCutoff() {
		bad("cell size %v is smaller than the interaction cutoff %v", c.Domain.CellSize, c.InteractionCutoff())
	}

	return errors.Join(errs...)
}

func (c *Config) usesGrid() bool {
	return c.Model != ModelSPH || c.SPH.Search != "all_pairs"
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
