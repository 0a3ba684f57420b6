package particle

import (
	"testing"

	"github.com/san-kum/partsim/internal/vec"
)

func benchmarkIntegrator(b *testing.B, integ Integrator) {
	p := New(0, vec.New(50, 50, 0), vec.New(1, 0, 0), 1, 1)
	bounds := Bounds{Max: vec.New(100, 100, 0), Damping: 0.5, Dim: 2}
	g := vec.New(0, 100, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Integrate(1.0/600, g, integ, bounds)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchmarkIntegrator(b, NewEuler())
}

func BenchmarkLeapfrog(b *testing.B) {
	benchmarkIntegrator(b, NewLeapfrog())
}
