package interact_test

import (
	"math/rand"

	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/grid"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

func mustGrid(extent vec.Vec, cell float64, ps particle.Set) *grid.Grid {
	g, err := grid.New(extent, cell)
	Expect(err).NotTo(HaveOccurred())
	g.Rebuild(ps)
	return g
}

func randomCloud(n int, extent vec.Vec, radius float64, seed int64) particle.Set {
	rng := rand.New(rand.NewSource(seed))
	ps := make(particle.Set, n)
	for i := range ps {
		pos := vec.New(rng.Float64()*extent.X, rng.Float64()*extent.Y, rng.Float64()*extent.Z)
		vel := vec.New(rng.NormFloat64(), rng.NormFloat64(), 0)
		if extent.Z > 0 {
			vel.Z = rng.NormFloat64()
		}
		ps[i] = particle.New(i, pos, vel, 1, radius)
	}
	return ps
}

func forces(ps particle.Set) []vec.Vec {
	out := make([]vec.Vec, len(ps))
	for i := range ps {
		out[i] = ps[i].Force
	}
	return out
}

func clearForces(ps particle.Set) {
	for i := range ps {
		ps[i].Force = vec.Zero()
	}
}

func expectFinite(ps particle.Set) {
	for i := range ps {
		ExpectWithOffset(1, ps[i].Force.IsFinite()).To(BeTrue(), "particle %d force %+v", i, ps[i].Force)
	}
}
