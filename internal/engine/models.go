package engine

import (
	"fmt"
	"sort"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/interact"
)

// ModelFactory builds an interaction model from a validated configuration.
type ModelFactory func(cfg *config.Config) (interact.Model, error)

var modelRegistry = map[string]ModelFactory{
	config.ModelRepulsion: func(cfg *config.Config) (interact.Model, error) {
		return interact.NewRepulsion(cfg.Repulsion.Stiffness), nil
	},
	config.ModelSPH: func(cfg *config.Config) (interact.Model, error) {
		k, err := interact.NewKernels(cfg.SPH.H, cfg.Dim)
		if err != nil {
			return nil, err
		}
		return interact.NewSPH(interact.SPHParams{
			Kernels:          k,
			RestDensity:      cfg.SPH.RestDensity,
			Stiffness:        cfg.SPH.Stiffness,
			Viscosity:        cfg.SPH.Viscosity,
			Tension:          cfg.SPH.Tension,
			TensionThreshold: cfg.SPH.TensionThreshold,
			Search:           interact.NeighborSearch(cfg.SPH.Search),
		}), nil
	},
}

func NewModel(cfg *config.Config) (interact.Model, error) {
	fn, ok := modelRegistry[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, cfg.Model)
	}
	return fn(cfg)
}

func ListModels() []string {
	names := make([]string, 0, len(modelRegistry))
	for name := range modelRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
