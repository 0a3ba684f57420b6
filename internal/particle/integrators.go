package particle

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/partsim/internal/vec"
)

var ErrUnknownIntegrator = errors.New("particle: unknown integrator")

// Integrator advances one particle by dt under a constant acceleration.
type Integrator interface {
	Name() string
	Step(p *Particle, accel vec.Vec, dt float64)
}

// Euler is semi-implicit Euler: velocity first, then position with the new
// velocity.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(p *Particle, accel vec.Vec, dt float64) {
	p.Velocity.AddAssign(accel.Scale(dt))
	p.Position.AddAssign(p.Velocity.Scale(dt))
}

// Leapfrog applies the symmetric half-step update twice per call:
// x += v·dt/2, v += a·dt/2.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog { return &Leapfrog{} }

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(p *Particle, accel vec.Vec, dt float64) {
	halfDt := dt * 0.5
	dv := accel.Scale(halfDt)
	for i := 0; i < 2; i++ {
		p.Position.AddAssign(p.Velocity.Scale(halfDt))
		p.Velocity.AddAssign(dv)
	}
}

var integrators = map[string]func() Integrator{
	"euler":    func() Integrator { return NewEuler() },
	"leapfrog": func() Integrator { return NewLeapfrog() },
}

func NewIntegrator(name string) (Integrator, error) {
	fn, ok := integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func ListIntegrators() []string {
	names := make([]string, 0, len(integrators))
	for name := range integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
