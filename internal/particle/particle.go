// Package particle holds the kinetic state of a single particle and the
// per-step integration policies that advance it.
package particle

import "github.com/san-kum/partsim/internal/vec"

// Particle is owned by the engine's particle slice and referred to by index.
// Force is a per-step accumulator: interaction models only add to it and the
// integrator clears it after reading.
type Particle struct {
	ID       int
	Position vec.Vec
	Velocity vec.Vec
	Force    vec.Vec
	Mass     float64
	Radius   float64
}

func New(id int, pos, vel vec.Vec, mass, radius float64) Particle {
	return Particle{
		ID:       id,
		Position: pos,
		Velocity: vel,
		Mass:     mass,
		Radius:   radius,
	}
}

// Integrate advances the particle by dt using the accumulated force and the
// external gravity acceleration, clears the force accumulator and applies the
// domain boundaries.
func (p *Particle) Integrate(dt float64, gravity vec.Vec, integ Integrator, b Bounds) {
	accel := p.Force.Div(p.Mass).Add(gravity)
	integ.Step(p, accel, dt)
	p.Force = vec.Zero()
	b.Apply(p)
}

// Momentum returns m·v.
func (p *Particle) Momentum() vec.Vec { return p.Velocity.Scale(p.Mass) }

// KineticEnergy returns ½·m·|v|².
func (p *Particle) KineticEnergy() float64 { return 0.5 * p.Mass * p.Velocity.LenSq() }
