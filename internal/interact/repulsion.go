package interact

import (
	"github.com/san-kum/partsim/internal/grid"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

// DefaultRepulsionStiffness matches the pair constant of the fountain setup.
const DefaultRepulsionStiffness = 3000.0

// Repulsion pushes overlapping particles apart along their line of centres.
// The push scales with the square of the combined radius so deeper overlaps
// push harder.
type Repulsion struct {
	Stiffness float64
}

func NewRepulsion(stiffness float64) *Repulsion {
	return &Repulsion{Stiffness: stiffness}
}

func (r *Repulsion) Name() string { return "repulsion" }

func (r *Repulsion) Accumulate(ps particle.Set, g *grid.Grid, dt float64) {
	forEachGridPair(g, func(i, j int) {
		f := r.PairForce(&ps[i], &ps[j], dt)
		ps[i].Force.AddAssign(f)
		ps[j].Force.SubAssign(f)
	})
}

// PairForce returns the force on p1 from p2; p2 receives the negation.
func (r *Repulsion) PairForce(p1, p2 *particle.Particle, dt float64) vec.Vec {
	d := p1.Position.Sub(p2.Position)
	r2 := d.LenSq()
	sum := p1.Radius + p2.Radius
	overlap := sum * sum
	if r2 >= overlap || r2 < minDistSq {
		return vec.Vec{}
	}
	return d.Scale(overlap * dt * r.Stiffness / r2)
}

func (r *Repulsion) sealed() {}
