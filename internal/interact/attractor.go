package interact

import (
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

const (
	// DefaultAttractorStrength is the pointer pull of the fountain setup.
	DefaultAttractorStrength = 300000.0
	DefaultAttractorMinDist  = 1e-3
)

// Attractor pulls every particle toward a target point with an inverse
// distance falloff. A negative Strength repels.
type Attractor struct {
	Strength    float64
	MinDistance float64
}

// Force returns (target - pos) / |target - pos|² · dt · Strength, or zero
// inside MinDistance of the target.
func (a Attractor) Force(pos, target vec.Vec, dt float64) vec.Vec {
	d := target.Sub(pos)
	r2 := d.LenSq()
	minSq := a.MinDistance * a.MinDistance
	if minSq < minDistSq {
		minSq = minDistSq
	}
	if r2 < minSq {
		return vec.Vec{}
	}
	return d.Scale(dt * a.Strength / r2)
}

func (a Attractor) Apply(ps particle.Set, target vec.Vec, dt float64) {
	if a.Strength == 0 {
		return
	}
	for i := range ps {
		ps[i].Force.AddAssign(a.Force(ps[i].Position, target, dt))
	}
}
