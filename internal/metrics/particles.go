package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/particle"
)

type Count struct{ n int }

func NewCount() *Count { return &Count{} }

func (c *Count) Name() string    { return "count" }
func (c *Count) Observe(f Frame) { c.n = len(f.Particles) }
func (c *Count) Value() float64  { return float64(c.n) }
func (c *Count) Reset()          { c.n = 0 }

// Momentum is |Σ m·v| of the latest frame.
type Momentum struct{ value float64 }

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(f Frame) {
	m.value = particle.Set(f.Particles).Momentum().Len()
}

func (m *Momentum) Value() float64 { return m.value }
func (m *Momentum) Reset()         { m.value = 0 }

type MaxSpeed struct{ value float64 }

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(f Frame) {
	maxSq := 0.0
	for i := range f.Particles {
		maxSq = math.Max(maxSq, f.Particles[i].Velocity.LenSq())
	}
	m.value = math.Sqrt(maxSq)
}

func (m *MaxSpeed) Value() float64 { return m.value }
func (m *MaxSpeed) Reset()         { m.value = 0 }

// MeanDensity averages the SPH density field; it stays 0 for models
// without one.
type MeanDensity struct{ value float64 }

func NewMeanDensity() *MeanDensity { return &MeanDensity{} }

func (m *MeanDensity) Name() string { return "mean_density" }

func (m *MeanDensity) Observe(f Frame) {
	if len(f.Densities) == 0 {
		m.value = 0
		return
	}
	sum := 0.0
	for _, d := range f.Densities {
		sum += d
	}
	m.value = sum / float64(len(f.Densities))
}

func (m *MeanDensity) Value() float64 { return m.value }
func (m *MeanDensity) Reset()         { m.value = 0 }
