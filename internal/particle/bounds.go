package particle

import "github.com/san-kum/partsim/internal/vec"

// BoundaryInset is how far inside the wall a clamped particle is placed.
const BoundaryInset = 0.01

// Bounds is the reflecting box [0, Max) on every active axis.
// Damping scales the reflected velocity: 1 is fully elastic.
type Bounds struct {
	Max     vec.Vec
	Damping float64
	Dim     int
}

func (b Bounds) Apply(p *Particle) {
	dim := b.Dim
	if dim <= 0 || dim > 3 {
		dim = 3
	}
	for axis := 0; axis < dim; axis++ {
		x := p.Position.Axis(axis)
		limit := b.Max.Axis(axis)
		switch {
		case x < 0:
			p.Position.SetAxis(axis, BoundaryInset)
		case x >= limit:
			p.Position.SetAxis(axis, limit-BoundaryInset)
		default:
			continue
		}
		p.Velocity.SetAxis(axis, -p.Velocity.Axis(axis)*b.Damping)
	}
}

// Contains reports whether pos lies inside [0, Max) on every active axis.
func (b Bounds) Contains(pos vec.Vec) bool {
	dim := b.Dim
	if dim <= 0 || dim > 3 {
		dim = 3
	}
	for axis := 0; axis < dim; axis++ {
		x := pos.Axis(axis)
		if x < 0 || x >= b.Max.Axis(axis) {
			return false
		}
	}
	return true
}
