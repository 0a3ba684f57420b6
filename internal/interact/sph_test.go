package interact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/interact"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

var _ = Describe("SPH", func() {
	const (
		h  = 10.0
		dt = 1.0 / 600
	)
	var (
		extent vec.Vec
		params interact.SPHParams
	)

	BeforeEach(func() {
		extent = vec.New(100, 100, 100)
		k, err := interact.NewKernels(h, 3)
		Expect(err).NotTo(HaveOccurred())
		params = interact.SPHParams{
			Kernels:          k,
			RestDensity:      1e-3,
			Stiffness:        1,
			Viscosity:        1,
			Tension:          1,
			TensionThreshold: 0.01,
		}
	})

	run := func(m *interact.SPH, ps particle.Set) {
		g := mustGrid(extent, h, ps)
		m.Accumulate(ps, g, dt)
	}

	It("accumulates density symmetrically from pairs inside H", func() {
		ps := particle.Set{
			particle.New(0, vec.New(50, 50, 50), vec.Zero(), 2, 1),
			particle.New(1, vec.New(54, 50, 50), vec.Zero(), 3, 1),
			particle.New(2, vec.New(90, 90, 90), vec.Zero(), 1, 1),
		}
		m := interact.NewSPH(params)
		run(m, ps)

		w := params.Kernels.Poly6(vec.New(4, 0, 0))
		rho := m.Densities()
		Expect(rho).To(HaveLen(3))
		Expect(rho[0]).To(BeNumerically("~", 3*w, 1e-15))
		Expect(rho[1]).To(BeNumerically("~", 2*w, 1e-15))
		Expect(rho[2]).To(BeZero(), "isolated particle has no neighbors")
	})

	It("never reuses density from a previous step", func() {
		ps := particle.Set{
			particle.New(0, vec.New(50, 50, 50), vec.Zero(), 1, 1),
			particle.New(1, vec.New(52, 50, 50), vec.Zero(), 1, 1),
		}
		m := interact.NewSPH(params)
		run(m, ps)
		first := append([]float64(nil), m.Densities()...)

		clearForces(ps)
		run(m, ps)
		Expect(m.Densities()).To(Equal(first))

		ps[1].Position = vec.New(80, 50, 50)
		clearForces(ps)
		run(m, ps)
		Expect(m.Densities()).To(Equal([]float64{0, 0}))
		Expect(forces(ps)).To(Equal([]vec.Vec{vec.Zero(), vec.Zero()}))
	})

	It("resizes its density scratch with the population", func() {
		m := interact.NewSPH(params)
		ps := randomCloud(10, extent, 1, 1)
		run(m, ps)
		Expect(m.Densities()).To(HaveLen(10))
		ps = append(ps, randomCloud(5, extent, 1, 2)...)
		run(m, ps)
		Expect(m.Densities()).To(HaveLen(15))
	})

	It("pushes a compressed pair apart", func() {
		ps := particle.Set{
			particle.New(0, vec.New(50, 50, 50), vec.Zero(), 1, 1),
			particle.New(1, vec.New(53, 50, 50), vec.Zero(), 1, 1),
		}
		params.RestDensity = 0
		params.Tension = 0
		m := interact.NewSPH(params)
		run(m, ps)

		Expect(ps[0].Force.X).To(BeNumerically("<", 0))
		Expect(ps[1].Force.X).To(BeNumerically(">", 0))
		Expect(ps[0].Force.X).To(BeNumerically("~", -ps[1].Force.X, 1e-12))
	})

	It("damps relative velocity through viscosity", func() {
		ps := particle.Set{
			particle.New(0, vec.New(50, 50, 50), vec.New(0, 1, 0), 1, 1),
			particle.New(1, vec.New(53, 50, 50), vec.New(0, -1, 0), 1, 1),
		}
		params.Stiffness = 0
		params.Tension = 0
		m := interact.NewSPH(params)
		run(m, ps)

		Expect(ps[0].Force.Y).To(BeNumerically("<", 0))
		Expect(ps[1].Force.Y).To(BeNumerically(">", 0))
	})

	It("drops surface tension below the normal threshold", func() {
		base := randomCloud(80, vec.New(40, 40, 40), 1, 5)

		params.TensionThreshold = 1e12
		with := append(particle.Set(nil), base...)
		run(interact.NewSPH(params), with)

		params.Tension = 0
		without := append(particle.Set(nil), base...)
		run(interact.NewSPH(params), without)

		Expect(forces(with)).To(Equal(forces(without)))
	})

	It("stays finite for coincident particles", func() {
		ps := particle.Set{
			particle.New(0, vec.New(50, 50, 50), vec.New(1, 0, 0), 1, 1),
			particle.New(1, vec.New(50, 50, 50), vec.New(-1, 0, 0), 1, 1),
			particle.New(2, vec.New(50, 50, 50), vec.Zero(), 1, 1),
		}
		m := interact.NewSPH(params)
		run(m, ps)
		expectFinite(ps)
	})

	It("gives the same result through the grid and through all pairs", func() {
		base := randomCloud(250, vec.New(60, 60, 60), 1, 11)

		gridPS := append(particle.Set(nil), base...)
		gridModel := interact.NewSPH(params)
		run(gridModel, gridPS)

		params.Search = interact.SearchAllPairs
		allPS := append(particle.Set(nil), base...)
		allModel := interact.NewSPH(params)
		allModel.Accumulate(allPS, nil, dt)

		for i := range base {
			Expect(gridModel.Densities()[i]).To(BeNumerically("~", allModel.Densities()[i], 1e-12))
			diff := gridPS[i].Force.Sub(allPS[i].Force).Len()
			Expect(diff).To(BeNumerically("<=", 1e-9*(1+allPS[i].Force.Len())))
		}
	})
})
