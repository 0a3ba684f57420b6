package engine_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/vec"
)

var _ = Describe("Simulation", func() {
	const dt = 1.0 / 600

	newSim := func(capacity int, cfg config.Config) *engine.Simulation {
		sim, err := engine.New(capacity, cfg, engine.WithDebugChecks())
		Expect(err).NotTo(HaveOccurred())
		return sim
	}

	Describe("creation", func() {
		It("rejects an invalid configuration", func() {
			cfg := quietConfig()
			cfg.Domain.CellSize = 0
			_, err := engine.New(10, cfg)
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		})

		It("rejects a non-positive capacity", func() {
			_, err := engine.New(0, quietConfig())
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		})

		It("rejects a cell smaller than the interaction cutoff", func() {
			cfg := sphConfig(2)
			cfg.Domain.CellSize = cfg.SPH.H / 2
			_, err := engine.New(10, cfg)
			Expect(err).To(MatchError(config.ErrInvalidConfig))
		})

		It("lets the capacity argument override the configuration", func() {
			cfg := quietConfig()
			cfg.Capacity = 5
			sim := newSim(42, cfg)
			Expect(sim.Capacity()).To(Equal(42))
			Expect(sim.Config().Capacity).To(Equal(42))
		})

		It("selects the configured model", func() {
			Expect(newSim(10, quietConfig()).ModelName()).To(Equal("repulsion"))
			Expect(newSim(10, sphConfig(3)).ModelName()).To(Equal("sph"))
			Expect(engine.ListModels()).To(Equal([]string{"repulsion", "sph"}))
		})
	})

	Describe("Step", func() {
		DescribeTable("rejects invalid timesteps without advancing",
			func(bad float64) {
				sim := newSim(10, quietConfig())
				err := sim.Step(bad, nil)
				Expect(errors.Is(err, engine.ErrInvalidTimestep)).To(BeTrue())
				Expect(sim.Steps()).To(BeZero())
				Expect(sim.Time()).To(BeZero())
			},
			Entry("zero", 0.0),
			Entry("negative", -dt),
			Entry("NaN", math.NaN()),
			Entry("+Inf", math.Inf(1)),
		)

		It("tracks physical time and step count", func() {
			sim := newSim(10, quietConfig())
			for i := 0; i < 60; i++ {
				Expect(sim.Step(dt, nil)).To(Succeed())
			}
			Expect(sim.Steps()).To(Equal(60))
			Expect(sim.Time()).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("clears every force accumulator after integrating", func() {
			sim := newSim(10, quietConfig())
			sim.AddParticle(vec.New(100, 100, 0), vec.Zero())
			sim.AddParticle(vec.New(110, 100, 0), vec.Zero())
			Expect(sim.Step(dt, nil)).To(Succeed())
			for _, p := range sim.Particles() {
				Expect(p.Force).To(Equal(vec.Zero()))
			}
		})

		It("applies gravity to a free particle", func() {
			cfg := quietConfig()
			cfg.Gravity = config.Vec3{Y: 100}
			sim := newSim(1, cfg)
			sim.AddParticle(vec.New(100, 100, 0), vec.Zero())
			Expect(sim.Step(dt, nil)).To(Succeed())
			Expect(sim.Particles()[0].Velocity.Y).To(BeNumerically("~", 100*dt, 1e-12))
		})

		It("keeps a 2D simulation planar", func() {
			cfg := quietConfig()
			cfg.Gravity = config.Vec3{Z: 50}
			sim := newSim(2, cfg)
			sim.AddParticle(vec.New(100, 100, 30), vec.New(0, 0, 10))
			target := vec.New(120, 100, 500)
			for i := 0; i < 10; i++ {
				Expect(sim.Step(dt, &target)).To(Succeed())
			}
			p := sim.Particles()[0]
			Expect(p.Position.Z).To(BeZero())
			Expect(p.Velocity.Z).To(BeZero())
		})
	})

	Describe("boundaries", func() {
		It("clamps a particle past the far wall and reflects its velocity", func() {
			cfg := quietConfig()
			sim := newSim(1, cfg)
			axisMax := cfg.Domain.Width
			sim.AddParticle(vec.New(axisMax+5, 300, 0), vec.New(10, 0, 0))

			Expect(sim.Step(dt, nil)).To(Succeed())
			p := sim.Particles()[0]
			wall := axisMax - particle.BoundaryInset
			Expect(p.Position.X).To(Equal(wall))
			Expect(p.Velocity.X).To(BeNumerically("<", 0))
			Expect(p.Velocity.X).To(BeNumerically("~", -10*cfg.Domain.Damping, 1e-12))
		})

		It("clamps a particle below zero to the inset", func() {
			sim := newSim(1, quietConfig())
			sim.AddParticle(vec.New(300, -4, 0), vec.New(0, -20, 0))
			Expect(sim.Step(dt, nil)).To(Succeed())
			p := sim.Particles()[0]
			Expect(p.Position.Y).To(Equal(particle.BoundaryInset))
			Expect(p.Velocity.Y).To(BeNumerically(">", 0))
		})

		It("keeps every particle of a running fountain inside the domain", func() {
			cfg := *config.DefaultConfig()
			cfg.Spawn.Radius = 5
			cfg.Domain.CellSize = 10
			cfg.Spawn.Velocity = config.Vec3{X: 400, Y: -300}
			cfg.Spawn.VelocityVariance = 200
			cfg.Seed = 3
			sim := newSim(150, cfg)
			bounds := sim.Bounds()

			for f := 0; f < 60; f++ {
				Expect(sim.Frame(nil)).To(Succeed())
				for _, p := range sim.Particles() {
					Expect(bounds.Contains(p.Position)).To(BeTrue(), "particle %d at %v", p.ID, p.Position)
				}
			}
			Expect(sim.Len()).To(Equal(150))
		})

		It("contains all three axes in 3D", func() {
			cfg := sphConfig(3)
			cfg.Gravity = config.Vec3{Z: -500}
			sim := newSim(2, cfg)
			sim.AddParticle(vec.New(10, 10, 1), vec.New(-300, 0, -300))
			sim.AddParticle(vec.New(1490, 590, 590), vec.New(300, 300, 300))
			for i := 0; i < 30; i++ {
				Expect(sim.Step(dt, nil)).To(Succeed())
			}
			for _, p := range sim.Particles() {
				Expect(sim.Bounds().Contains(p.Position)).To(BeTrue())
			}
		})
	})

	Describe("momentum", func() {
		DescribeTable("an isolated overlapping pair keeps zero total momentum",
			func(cfg config.Config, sep float64) {
				sim := newSim(2, cfg)
				sim.AddParticle(vec.New(300, 300, 300), vec.Zero())
				sim.AddParticle(vec.New(300+sep, 300+sep/2, 300), vec.Zero())

				Expect(sim.Step(dt, nil)).To(Succeed())
				ps := particle.Set(sim.Particles())
				Expect(ps[0].Velocity.LenSq()).To(BeNumerically(">", 0), "the pair must interact")
				total := ps.Momentum()
				Expect(total.Len()).To(BeNumerically("<", 1e-9))
			},
			Entry("repulsion", quietConfig(), 10.0),
			Entry("sph 2D", sphConfig(2), 6.0),
			Entry("sph 3D", sphConfig(3), 6.0),
		)
	})

	Describe("attractor", func() {
		It("pulls a particle toward the target only while a target is given", func() {
			sim := newSim(1, quietConfig())
			sim.AddParticle(vec.New(300, 300, 0), vec.Zero())

			Expect(sim.Step(dt, nil)).To(Succeed())
			Expect(sim.Particles()[0].Velocity).To(Equal(vec.Zero()))

			target := vec.New(400, 300, 0)
			Expect(sim.Step(dt, &target)).To(Succeed())
			Expect(sim.Particles()[0].Velocity.X).To(BeNumerically(">", 0))
		})

		It("repels with a negative strength", func() {
			sim := newSim(1, quietConfig())
			sim.SetAttractorStrength(-sim.AttractorStrength())
			sim.AddParticle(vec.New(300, 300, 0), vec.Zero())
			target := vec.New(400, 300, 0)
			Expect(sim.Step(dt, &target)).To(Succeed())
			Expect(sim.Particles()[0].Velocity.X).To(BeNumerically("<", 0))
		})

		It("contributes nothing when the target sits on the particle", func() {
			sim := newSim(1, quietConfig())
			sim.AddParticle(vec.New(300, 300, 0), vec.Zero())
			target := vec.New(300, 300, 0)
			Expect(sim.Step(dt, &target)).To(Succeed())
			Expect(sim.Particles()[0].Velocity).To(Equal(vec.Zero()))
		})
	})

	Describe("degenerate input", func() {
		DescribeTable("coincident particles never produce NaN",
			func(cfg config.Config) {
				sim := newSim(4, cfg)
				for i := 0; i < 4; i++ {
					sim.AddParticle(vec.New(200, 200, 200), vec.Zero())
				}
				for i := 0; i < 20; i++ {
					Expect(sim.Step(dt, nil)).To(Succeed())
				}
				for _, p := range sim.Particles() {
					Expect(p.Position.IsFinite()).To(BeTrue())
					Expect(p.Velocity.IsFinite()).To(BeTrue())
				}
			},
			Entry("repulsion", quietConfig()),
			Entry("sph 2D", sphConfig(2)),
			Entry("sph 3D", sphConfig(3)),
		)

		It("steps an empty simulation", func() {
			sim := newSim(10, sphConfig(2))
			Expect(sim.Step(dt, nil)).To(Succeed())
			Expect(sim.Len()).To(BeZero())
			Expect(sim.Densities()).To(BeEmpty())
		})
	})

	Describe("densities", func() {
		It("reports one density per particle for SPH", func() {
			sim := newSim(3, sphConfig(2))
			sim.AddParticle(vec.New(100, 100, 0), vec.Zero())
			sim.AddParticle(vec.New(108, 100, 0), vec.Zero())
			sim.AddParticle(vec.New(400, 100, 0), vec.Zero())
			Expect(sim.Step(dt, nil)).To(Succeed())

			d := sim.Densities()
			Expect(d).To(HaveLen(3))
			Expect(d[0]).To(BeNumerically(">", 0))
			Expect(d[0]).To(BeNumerically("~", d[1], 1e-15))
			Expect(d[2]).To(BeZero(), "isolated particle has no self density")
			Expect(sim.Density(1)).To(Equal(d[1]))
			Expect(sim.Density(7)).To(BeZero())
		})

		It("has no density field for repulsion", func() {
			sim := newSim(1, quietConfig())
			sim.AddParticle(vec.New(100, 100, 0), vec.Zero())
			Expect(sim.Step(dt, nil)).To(Succeed())
			Expect(sim.Densities()).To(BeNil())
			Expect(sim.Density(0)).To(BeZero())
		})
	})

	Describe("AddParticle", func() {
		It("honours capacity", func() {
			sim := newSim(2, quietConfig())
			_, ok := sim.AddParticle(vec.New(10, 10, 0), vec.Zero())
			Expect(ok).To(BeTrue())
			_, ok = sim.AddParticle(vec.New(50, 10, 0), vec.Zero())
			Expect(ok).To(BeTrue())
			_, ok = sim.AddParticle(vec.New(90, 10, 0), vec.Zero())
			Expect(ok).To(BeFalse())
			Expect(sim.Len()).To(Equal(2))
		})

		It("returns a copy from Particles", func() {
			sim := newSim(1, quietConfig())
			sim.AddParticle(vec.New(10, 10, 0), vec.Zero())
			ps := sim.Particles()
			ps[0].Position = vec.New(999, 999, 0)
			Expect(sim.Particles()[0].Position).To(Equal(vec.New(10, 10, 0)))
		})
	})

	Describe("Frame and Run", func() {
		It("runs the configured number of substeps per frame", func() {
			cfg := quietConfig()
			cfg.Substeps = 4
			sim := newSim(1, cfg)
			Expect(sim.Frame(nil)).To(Succeed())
			Expect(sim.Steps()).To(Equal(4))
			Expect(sim.Time()).To(BeNumerically("~", 4*cfg.Dt, 1e-12))
		})

		It("notifies observers once per frame", func() {
			sim := newSim(10, quietConfig())
			frames := 0
			res, err := sim.Run(context.Background(), 5, nil, engine.ObserverFunc(func(*engine.Simulation) { frames++ }))
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(Equal(5))
			Expect(res.Frames).To(Equal(5))
			Expect(res.Steps).To(Equal(5 * sim.Config().Substeps))
		})

		It("feeds the target function into every frame", func() {
			sim := newSim(1, quietConfig())
			sim.AddParticle(vec.New(300, 300, 0), vec.Zero())
			calls := 0
			target := func(frame int, t float64) *vec.Vec {
				calls++
				v := vec.New(500, 300, 0)
				return &v
			}
			_, err := sim.Run(context.Background(), 3, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(3))
			Expect(sim.Particles()[0].Velocity.X).To(BeNumerically(">", 0))
		})

		It("stops between frames when the context is cancelled", func() {
			sim := newSim(10, quietConfig())
			ctx, cancel := context.WithCancel(context.Background())
			res, err := sim.Run(ctx, 100, nil, engine.ObserverFunc(func(s *engine.Simulation) {
				if s.Steps() >= 2*s.Config().Substeps {
					cancel()
				}
			}))
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Frames).To(Equal(2))
		})
	})
})
