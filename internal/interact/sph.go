package interact

import (
	"github.com/san-kum/partsim/internal/grid"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

// NeighborSearch selects how the SPH model enumerates candidate pairs.
type NeighborSearch string

const (
	SearchGrid     NeighborSearch = "grid"
	SearchAllPairs NeighborSearch = "all_pairs"
)

// minDensity guards terms that divide by a neighbor's density.
const minDensity = 1e-12

type SPHParams struct {
	Kernels          Kernels
	RestDensity      float64
	Stiffness        float64
	Viscosity        float64
	Tension          float64
	TensionThreshold float64
	Search           NeighborSearch
}

// SPH is the smoothed-particle fluid model. Density is recomputed from
// scratch on every Accumulate and only read by the force pass of the same
// call.
type SPH struct {
	SPHParams

	density []float64
	pairs   [][2]int
}

func NewSPH(p SPHParams) *SPH {
	if p.Search == "" {
		p.Search = SearchGrid
	}
	return &SPH{SPHParams: p}
}

func (s *SPH) Name() string { return "sph" }

// Densities returns the densities of the last Accumulate, indexed like the
// particle set.
func (s *SPH) Densities() []float64 { return s.density }

// Pressure is the linear equation of state K·(ρ - ρ0).
func (s *SPH) Pressure(rho float64) float64 {
	return s.Stiffness * (rho - s.RestDensity)
}

func (s *SPH) Accumulate(ps particle.Set, g *grid.Grid, dt float64) {
	s.collectPairs(ps, g)
	s.computeDensity(ps)
	for _, pr := range s.pairs {
		i, j := pr[0], pr[1]
		ps[i].Force.AddAssign(s.pairForce(ps, i, j))
		ps[j].Force.AddAssign(s.pairForce(ps, j, i))
	}
}

// collectPairs records every unordered pair within H for this step.
func (s *SPH) collectPairs(ps particle.Set, g *grid.Grid) {
	s.pairs = s.pairs[:0]
	h2 := s.Kernels.H * s.Kernels.H
	visit := func(i, j int) {
		if ps[i].Position.Sub(ps[j].Position).LenSq() < h2 {
			s.pairs = append(s.pairs, [2]int{i, j})
		}
	}
	if s.Search == SearchAllPairs || g == nil {
		forEachPair(len(ps), visit)
		return
	}
	forEachGridPair(g, visit)
}

func (s *SPH) computeDensity(ps particle.Set) {
	if cap(s.density) < len(ps) {
		s.density = make([]float64, len(ps))
	}
	s.density = s.density[:len(ps)]
	for i := range s.density {
		s.density[i] = 0
	}
	for _, pr := range s.pairs {
		i, j := pr[0], pr[1]
		w := s.Kernels.Poly6(ps[i].Position.Sub(ps[j].Position))
		s.density[i] += ps[j].Mass * w
		s.density[j] += ps[i].Mass * w
	}
}

// pairForce is the pressure, viscosity and tension contribution of j on i.
func (s *SPH) pairForce(ps particle.Set, i, j int) vec.Vec {
	pi, pj := &ps[i], &ps[j]
	r := pi.Position.Sub(pj.Position)
	rhoI, rhoJ := s.density[i], s.density[j]

	pressure := (s.Pressure(rhoI) + s.Pressure(rhoJ)) / 2
	f := s.Kernels.SpikyGrad(r).Scale(-pj.Mass * pressure)

	if rhoJ < minDensity {
		return f
	}

	dv := pj.Velocity.Sub(pi.Velocity)
	f.AddAssign(dv.Scale(s.Viscosity * pj.Mass / rhoJ * s.Kernels.ViscosityLaplacian(r)))

	n := s.Kernels.Poly6Grad(r).Scale(pj.Mass / rhoJ)
	if nLen := n.Len(); nLen > s.TensionThreshold && nLen > 0 {
		curvature := -s.Kernels.Poly6Laplacian(r) / nLen
		f.AddAssign(n.Scale(-s.Tension * curvature))
	}
	return f
}

func (s *SPH) sealed() {}
