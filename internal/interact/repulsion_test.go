package interact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/interact"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

var _ = Describe("Repulsion", func() {
	const (
		radius = 15.0
		dt     = 1.0 / 600
	)
	var (
		model  *interact.Repulsion
		extent vec.Vec
	)

	BeforeEach(func() {
		model = interact.NewRepulsion(interact.DefaultRepulsionStiffness)
		extent = vec.New(1500, 600, 0)
	})

	accumulate := func(ps particle.Set) {
		g := mustGrid(extent, 2*radius, ps)
		model.Accumulate(ps, g, dt)
	}

	It("applies exactly equal and opposite forces to an overlapping pair", func() {
		ps := particle.Set{
			particle.New(0, vec.New(100, 100, 0), vec.Zero(), 1, radius),
			particle.New(1, vec.New(110, 104, 0), vec.Zero(), 1, radius),
		}
		accumulate(ps)

		Expect(ps[0].Force).NotTo(Equal(vec.Zero()))
		Expect(ps[0].Force).To(Equal(ps[1].Force.Scale(-1)))
		Expect(ps[0].Force.X).To(BeNumerically("<", 0), "pushed away from the right neighbor")
	})

	It("matches the closed form d/r²·D·dt·K", func() {
		p1 := particle.New(0, vec.New(0, 0, 0), vec.Zero(), 1, radius)
		p2 := particle.New(1, vec.New(10, 0, 0), vec.Zero(), 1, radius)
		f := model.PairForce(&p1, &p2, dt)

		want := -10.0 / 100 * 900 * dt * interact.DefaultRepulsionStiffness
		Expect(f.X).To(BeNumerically("~", want, 1e-9))
		Expect(f.Y).To(BeZero())
	})

	It("ignores pairs that do not overlap", func() {
		ps := particle.Set{
			particle.New(0, vec.New(100, 100, 0), vec.Zero(), 1, radius),
			particle.New(1, vec.New(130, 100, 0), vec.Zero(), 1, radius),
			particle.New(2, vec.New(100, 140, 0), vec.Zero(), 1, radius),
		}
		accumulate(ps)
		for _, f := range forces(ps) {
			Expect(f).To(Equal(vec.Zero()))
		}
	})

	It("never lets a lone particle interact with itself", func() {
		ps := particle.Set{particle.New(0, vec.New(50, 50, 0), vec.Zero(), 1, radius)}
		accumulate(ps)
		Expect(ps[0].Force).To(Equal(vec.Zero()))
	})

	It("returns a zero contribution for coincident particles", func() {
		ps := particle.Set{
			particle.New(0, vec.New(750, 299, 0), vec.Zero(), 1, radius),
			particle.New(1, vec.New(750, 299, 0), vec.Zero(), 1, radius),
		}
		accumulate(ps)
		expectFinite(ps)
		Expect(ps[0].Force).To(Equal(vec.Zero()))
	})

	It("conserves total force across a dense cluster", func() {
		ps := randomCloud(300, vec.New(200, 200, 0), radius, 3)
		accumulate(ps)
		expectFinite(ps)

		var total vec.Vec
		scale := 0.0
		for _, f := range forces(ps) {
			total.AddAssign(f)
			scale += f.Len()
		}
		Expect(scale).To(BeNumerically(">", 0))
		Expect(total.Len()).To(BeNumerically("<", 1e-9*scale))
	})

	It("finds pairs straddling a cell border", func() {
		ps := particle.Set{
			particle.New(0, vec.New(59, 100, 0), vec.Zero(), 1, radius),
			particle.New(1, vec.New(61, 100, 0), vec.Zero(), 1, radius),
		}
		accumulate(ps)
		Expect(ps[0].Force.X).To(BeNumerically("<", 0))
		Expect(ps[1].Force.X).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Attractor", func() {
	a := interact.Attractor{Strength: interact.DefaultAttractorStrength, MinDistance: interact.DefaultAttractorMinDist}

	It("pulls toward the target", func() {
		f := a.Force(vec.New(0, 0, 0), vec.New(10, 0, 0), 0.01)
		Expect(f.X).To(BeNumerically("~", 10.0/100*0.01*interact.DefaultAttractorStrength, 1e-9))
		Expect(f.Y).To(BeZero())
	})

	It("repels with a negative strength", func() {
		r := interact.Attractor{Strength: -1, MinDistance: 1e-3}
		Expect(r.Force(vec.Zero(), vec.New(0, 5, 0), 1).Y).To(BeNumerically("<", 0))
	})

	It("is zero at the target instead of singular", func() {
		f := a.Force(vec.New(3, 3, 0), vec.New(3, 3, 0), 0.01)
		Expect(f).To(Equal(vec.Zero()))
	})

	It("is applied to every particle", func() {
		ps := particle.Set{
			particle.New(0, vec.New(0, 0, 0), vec.Zero(), 1, 1),
			particle.New(1, vec.New(20, 0, 0), vec.Zero(), 1, 1),
		}
		a.Apply(ps, vec.New(10, 0, 0), 0.01)
		Expect(ps[0].Force.X).To(BeNumerically(">", 0))
		Expect(ps[1].Force.X).To(BeNumerically("<", 0))
	})
})
