package engine

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/vec"
)

// spawnEpsilon absorbs the rounding of rate·dt so that credit summing to a
// whole particle is never lost to 0.9999….
const spawnEpsilon = 1e-9

const (
	perlinAlpha = 2
	perlinBeta  = 2
	perlinOct   = 3
	// perlinStride is how far along the noise curve each spawned particle
	// moves the nozzle.
	perlinStride = 0.02
	// perlinAxisShift decorrelates the per-axis samples.
	perlinAxisShift = 97.0
)

// Spawner is the fractional spawn-rate accumulator plus the jitter applied
// to each new particle.
type Spawner struct {
	Rate float64

	credit   float64
	origin   vec.Vec
	velocity vec.Vec
	posVar   float64
	velVar   float64
	dim      int

	rng   *rand.Rand
	noise *perlin.Perlin
	phase float64
}

func NewSpawner(cfg *config.Config) *Spawner {
	s := &Spawner{
		Rate:     cfg.Spawn.Rate,
		origin:   cfg.Spawn.Position.Vec(),
		velocity: cfg.Spawn.Velocity.Vec(),
		posVar:   cfg.Spawn.PositionVariance,
		velVar:   cfg.Spawn.VelocityVariance,
		dim:      cfg.Dim,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
	if cfg.Dim == 2 {
		s.origin.Z = 0
		s.velocity.Z = 0
	}
	if cfg.Spawn.Jitter == config.JitterPerlin {
		s.noise = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOct, cfg.Seed)
		// lattice points are zero crossings
		s.phase = 0.5
	}
	return s
}

// Due adds rate·dt to the credit and returns how many whole particles have
// matured, never more than room. The fractional remainder carries over.
func (s *Spawner) Due(dt float64, room int) int {
	s.credit += s.Rate * dt
	n := math.Floor(s.credit + spawnEpsilon)
	if n < 1 {
		return 0
	}
	s.credit -= n
	if room <= 0 {
		return 0
	}
	if n > float64(room) {
		return room
	}
	return int(n)
}

// Credit is the fractional particle count carried into the next step.
func (s *Spawner) Credit() float64 { return s.credit }

// Next returns the position and velocity for one new particle.
func (s *Spawner) Next() (pos, vel vec.Vec) {
	pos, vel = s.origin, s.velocity
	for axis := 0; axis < s.dim; axis++ {
		pos.SetAxis(axis, pos.Axis(axis)+s.posVar*s.sample(axis))
		vel.SetAxis(axis, vel.Axis(axis)+s.velVar*s.sample(axis+3))
	}
	if s.noise != nil {
		s.phase += perlinStride
	}
	return pos, vel
}

// sample returns a jitter factor in [-1, 1] for one channel.
func (s *Spawner) sample(channel int) float64 {
	if s.noise == nil {
		return 2*s.rng.Float64() - 1
	}
	v := s.noise.Noise1D(s.phase + perlinAxisShift*float64(channel))
	return math.Max(-1, math.Min(1, v))
}
