package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/particle"
)

// KineticEnergy is Σ ½·m·|v|² of the latest frame.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f Frame) {
	e.value = particle.Set(f.Particles).KineticEnergy()
}

func (e *KineticEnergy) Value() float64 { return e.value }

func (e *KineticEnergy) Reset() { e.value = 0 }

// EnergyDrift is the largest relative change of kinetic energy per particle
// seen since the first non-empty frame. A population that keeps spawning
// makes total energy meaningless, so it is normalised by count.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f Frame) {
	if len(f.Particles) == 0 {
		return
	}
	energy := particle.Set(f.Particles).KineticEnergy() / float64(len(f.Particles))

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
