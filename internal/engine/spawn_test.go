package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/vec"
)

var _ = Describe("Spawner", func() {
	const dt = 1.0 / 600

	It("carries fractional credit so no particle is lost", func() {
		cfg := quietConfig()
		cfg.Spawn.Rate = 1500
		sp := engine.NewSpawner(&cfg)

		total := 0
		for i := 0; i < 600; i++ {
			total += sp.Due(dt, 1<<30)
		}
		Expect(total).To(Equal(1500))
		Expect(sp.Credit()).To(BeNumerically("~", 0, 1e-6))
	})

	It("releases a particle only once a whole one has matured", func() {
		cfg := quietConfig()
		cfg.Spawn.Rate = 240
		sp := engine.NewSpawner(&cfg)

		Expect(sp.Due(dt, 10)).To(BeZero())
		Expect(sp.Due(dt, 10)).To(BeZero())
		Expect(sp.Due(dt, 10)).To(Equal(1))
	})

	It("never returns more than the room left", func() {
		cfg := quietConfig()
		cfg.Spawn.Rate = 1e6
		sp := engine.NewSpawner(&cfg)
		Expect(sp.Due(dt, 3)).To(Equal(3))
		Expect(sp.Due(dt, 0)).To(BeZero())
	})

	DescribeTable("keeps jitter inside the configured variance",
		func(jitter string, dim int) {
			cfg := quietConfig()
			cfg.Dim = dim
			cfg.Domain.Depth = 600
			cfg.Spawn.Jitter = jitter
			cfg.Spawn.Position = config.Vec3{X: 100, Y: 100, Z: 100}
			cfg.Spawn.Velocity = config.Vec3{X: 10, Y: 20, Z: 30}
			cfg.Spawn.PositionVariance = 5
			cfg.Spawn.VelocityVariance = 2
			sp := engine.NewSpawner(&cfg)

			origin, vel := cfg.Spawn.Position.Vec(), cfg.Spawn.Velocity.Vec()
			if dim == 2 {
				origin.Z, vel.Z = 0, 0
			}
			moved := false
			for i := 0; i < 200; i++ {
				p, v := sp.Next()
				for axis := 0; axis < 3; axis++ {
					Expect(p.Axis(axis)).To(BeNumerically("~", origin.Axis(axis), 5))
					Expect(v.Axis(axis)).To(BeNumerically("~", vel.Axis(axis), 2))
				}
				if dim == 2 {
					Expect(p.Z).To(BeZero())
				}
				if p != origin {
					moved = true
				}
			}
			Expect(moved).To(BeTrue())
		},
		Entry("uniform 2D", config.JitterUniform, 2),
		Entry("uniform 3D", config.JitterUniform, 3),
		Entry("perlin 2D", config.JitterPerlin, 2),
		Entry("perlin 3D", config.JitterPerlin, 3),
	)

	It("is deterministic for a seed", func() {
		cfg := quietConfig()
		cfg.Spawn.PositionVariance = 10
		a, b := engine.NewSpawner(&cfg), engine.NewSpawner(&cfg)
		for i := 0; i < 20; i++ {
			pa, va := a.Next()
			pb, vb := b.Next()
			Expect(pa).To(Equal(pb))
			Expect(va).To(Equal(vb))
		}
	})
})

var _ = Describe("Simulation spawning", func() {
	const dt = 1.0 / 600

	spread := func() config.Config {
		cfg := quietConfig()
		cfg.Spawn.Radius = 2
		cfg.Domain.CellSize = 4
		cfg.Spawn.Position = config.Vec3{X: 750, Y: 300}
		cfg.Spawn.PositionVariance = 280
		return cfg
	}

	It("spawns exactly rate × time particles when capacity allows", func() {
		cfg := spread()
		cfg.Spawn.Rate = 1500
		sim, err := engine.New(2000, cfg, engine.WithDebugChecks())
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 600; i++ {
			Expect(sim.Step(dt, nil)).To(Succeed())
		}
		Expect(sim.Len()).To(Equal(1500))
	})

	It("never grows past capacity regardless of spawn credit", func() {
		cfg := spread()
		cfg.Spawn.Rate = 1e5
		sim, err := engine.New(100, cfg, engine.WithDebugChecks())
		Expect(err).NotTo(HaveOccurred())

		Expect(sim.Step(dt, nil)).To(Succeed())
		Expect(sim.Len()).To(Equal(100))
		for i := 0; i < 50; i++ {
			Expect(sim.Step(dt, nil)).To(Succeed())
			Expect(sim.Len()).To(Equal(100))
		}
		_, ok := sim.AddParticle(vec.New(1, 1, 0), vec.Zero())
		Expect(ok).To(BeFalse())
	})

	It("assigns strictly increasing IDs that are never reused", func() {
		cfg := spread()
		cfg.Spawn.Rate = 3000
		sim, err := engine.New(200, cfg, engine.WithDebugChecks())
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 60; i++ {
			Expect(sim.Step(dt, nil)).To(Succeed())
		}

		ps := sim.Particles()
		Expect(ps).NotTo(BeEmpty())
		for i, p := range ps {
			Expect(p.ID).To(Equal(i))
		}
	})
})
