package interact_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/interact"
	"github.com/san-kum/partsim/internal/vec"
)

var _ = Describe("Kernels", func() {
	const h = 2.0

	for _, dim := range []int{2, 3} {
		dim := dim

		Context(fmt.Sprintf("in %dD", dim), func() {
			var k interact.Kernels

			BeforeEach(func() {
				var err error
				k, err = interact.NewKernels(h, dim)
				Expect(err).NotTo(HaveOccurred())
			})

			It("is exactly zero just outside the support radius", func() {
				r := vec.New(h+1e-9, 0, 0)
				Expect(k.Poly6(r)).To(BeZero())
				Expect(k.Poly6Grad(r)).To(Equal(vec.Zero()))
				Expect(k.Poly6Laplacian(r)).To(BeZero())
				Expect(k.Spiky(r)).To(BeZero())
				Expect(k.SpikyGrad(r)).To(Equal(vec.Zero()))
				Expect(k.ViscosityLaplacian(r)).To(BeZero())
			})

			It("is finite at zero separation", func() {
				r := vec.Zero()
				for _, v := range []float64{k.Poly6(r), k.Poly6Laplacian(r), k.Spiky(r), k.ViscosityLaplacian(r)} {
					Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
				}
				Expect(k.Poly6(r)).To(BeNumerically(">", 0))
				Expect(k.Poly6Grad(r).IsFinite()).To(BeTrue())
				Expect(k.SpikyGrad(r)).To(Equal(vec.Zero()))
			})

			It("has a poly6 gradient matching finite differences", func() {
				r := vec.New(0.7, -0.4, 0)
				if dim == 3 {
					r.Z = 0.3
				}
				const eps = 1e-6
				grad := k.Poly6Grad(r)
				for axis := 0; axis < dim; axis++ {
					hi, lo := r, r
					hi.SetAxis(axis, r.Axis(axis)+eps)
					lo.SetAxis(axis, r.Axis(axis)-eps)
					numeric := (k.Poly6(hi) - k.Poly6(lo)) / (2 * eps)
					Expect(grad.Axis(axis)).To(BeNumerically("~", numeric, 1e-6))
				}
			})

			It("points the spiky gradient back toward the origin", func() {
				g := k.SpikyGrad(vec.New(1, 0, 0))
				Expect(g.X).To(BeNumerically("<", 0))
			})

			It("normalises poly6 and spiky to unit volume", func() {
				step := 0.02
				if dim == 3 {
					step = 0.05
				}
				cellVol := math.Pow(step, float64(dim))
				var poly, spiky float64
				n := int(h / step)
				zRange := 0
				if dim == 3 {
					zRange = n
				}
				for i := -n; i <= n; i++ {
					for j := -n; j <= n; j++ {
						for l := -zRange; l <= zRange; l++ {
							r := vec.New(float64(i)*step, float64(j)*step, float64(l)*step)
							poly += k.Poly6(r) * cellVol
							spiky += k.Spiky(r) * cellVol
						}
					}
				}
				Expect(poly).To(BeNumerically("~", 1, 0.02))
				Expect(spiky).To(BeNumerically("~", 1, 0.05))
			})
		})
	}

	It("rejects a non-positive radius", func() {
		_, err := interact.NewKernels(-1, 3)
		Expect(err).To(MatchError(interact.ErrInvalidKernel))
		_, err = interact.NewKernels(0, 2)
		Expect(err).To(MatchError(interact.ErrInvalidKernel))
	})

	It("rejects unsupported dimensions", func() {
		_, err := interact.NewKernels(1, 4)
		Expect(err).To(MatchError(interact.ErrInvalidKernel))
	})
})
