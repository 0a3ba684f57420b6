// Package metrics reduces a particle population to scalars, once per
// rendered frame.
package metrics

import "github.com/san-kum/partsim/internal/particle"

// Frame is what a metric sees after each frame. Densities is nil for models
// without a density field.
type Frame struct {
	Time      float64
	Particles []particle.Particle
	Densities []float64
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Standard returns the metric set recorded for every run.
func Standard(speedLimit float64) []Metric {
	return []Metric{
		NewCount(),
		NewKineticEnergy(),
		NewMomentum(),
		NewMaxSpeed(),
		NewMeanDensity(),
		NewStability(speedLimit),
	}
}
