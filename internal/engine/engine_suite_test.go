package engine_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/config"
)

func TestEngine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Engine Suite")
}

// quietConfig is the fountain setup with spawning, gravity and the
// attractor switched off, so specs add exactly what they need.
func quietConfig() config.Config {
	cfg := *config.DefaultConfig()
	cfg.Spawn.Rate = 0
	cfg.Gravity = config.Vec3{}
	cfg.Seed = 7
	return cfg
}

func sphConfig(dim int) config.Config {
	cfg := quietConfig()
	cfg.Model = config.ModelSPH
	cfg.Dim = dim
	cfg.Domain.Depth = 600
	cfg.Spawn.Radius = 4
	cfg.SPH = config.SPHConfig{
		H:                16,
		RestDensity:      5e-3,
		Stiffness:        1e4,
		Viscosity:        10,
		Tension:          1e3,
		TensionThreshold: 0.01,
		Search:           "grid",
	}
	cfg.Domain.CellSize = 16
	return cfg
}
