package particle

import "github.com/san-kum/partsim/internal/vec"

// Set is the engine-owned particle collection. Indices into a Set are what
// the spatial partition stores, so they stay valid across appends.
type Set []Particle

func (s Set) Len() int { return len(s) }

func (s Set) PositionAt(i int) vec.Vec { return s[i].Position }

// Momentum returns Σ m·v.
func (s Set) Momentum() vec.Vec {
	var total vec.Vec
	for i := range s {
		total.AddAssign(s[i].Momentum())
	}
	return total
}

// KineticEnergy returns Σ ½·m·|v|².
func (s Set) KineticEnergy() float64 {
	e := 0.0
	for i := range s {
		e += s[i].KineticEnergy()
	}
	return e
}
