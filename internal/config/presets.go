package config

import "sort"

// Presets groups named configurations by interaction model.
var Presets = map[string]map[string]*Config{
	ModelRepulsion: {
		"fountain": DefaultConfig(),
		"rain":     rain(),
		"swarm":    swarm(),
		"box3d":    box3D(),
	},
	ModelSPH: {
		"pool":   pool(),
		"stream": stream(),
		"drop3d": drop3D(),
	},
}

// rain drops particles across the whole width with perfectly elastic walls.
func rain() *Config {
	cfg := DefaultConfig()
	cfg.Name = "rain"
	cfg.Domain.Damping = 1
	cfg.Spawn.Position = Vec3{X: DefaultWidth / 2, Y: 2 * DefaultRadius}
	cfg.Spawn.Velocity = Vec3{}
	cfg.Spawn.PositionVariance = DefaultWidth/2 - DefaultRadius
	cfg.Spawn.VelocityVariance = 20
	cfg.Spawn.Rate = 150
	cfg.Gravity = Vec3{Y: 300}
	return cfg
}

// swarm turns gravity off; the pointer attractor does all the work.
func swarm() *Config {
	cfg := DefaultConfig()
	cfg.Name = "swarm"
	cfg.Gravity = Vec3{}
	cfg.Spawn.Radius = 8
	cfg.Domain.CellSize = 16
	cfg.Spawn.Jitter = JitterPerlin
	cfg.Spawn.PositionVariance = 200
	cfg.Spawn.Velocity = Vec3{X: 60}
	cfg.Spawn.VelocityVariance = 30
	cfg.Capacity = 800
	return cfg
}

func box3D() *Config {
	cfg := DefaultConfig()
	cfg.Name = "box3d"
	cfg.Dim = 3
	cfg.Capacity = 600
	cfg.Domain.Width = 400
	cfg.Domain.Height = 300
	cfg.Domain.Depth = 200
	cfg.Spawn.Position = Vec3{X: 200, Y: 50, Z: 100}
	cfg.Spawn.Velocity = Vec3{X: 40, Z: 20}
	cfg.Spawn.PositionVariance = 20
	cfg.Spawn.Rate = 120
	cfg.Gravity = Vec3{Y: 200}
	return cfg
}

func sphBase() *Config {
	cfg := DefaultConfig()
	cfg.Model = ModelSPH
	cfg.Domain.Damping = 1
	cfg.Spawn.Radius = 4
	cfg.Spawn.Mass = 1
	cfg.SPH = SPHConfig{
		H:                16,
		RestDensity:      5e-3,
		Stiffness:        1e8,
		Viscosity:        200,
		Tension:          2e4,
		TensionThreshold: 0.01,
		Search:           "grid",
	}
	cfg.Domain.CellSize = cfg.SPH.H
	return cfg
}

// pool fills a small 2D tank from one side.
func pool() *Config {
	cfg := sphBase()
	cfg.Name = "pool"
	cfg.Capacity = 1200
	cfg.Domain.Width = 600
	cfg.Domain.Height = 400
	cfg.Domain.Scale = 2
	cfg.Spawn.Position = Vec3{X: 40, Y: 60}
	cfg.Spawn.Velocity = Vec3{X: 120}
	cfg.Spawn.PositionVariance = 8
	cfg.Spawn.VelocityVariance = 5
	cfg.Spawn.Rate = 400
	cfg.Gravity = Vec3{Y: 500}
	return cfg
}

// stream runs the same fluid through a wide, shallow channel with a
// smoothly wandering nozzle.
func stream() *Config {
	cfg := pool()
	cfg.Name = "stream"
	cfg.Domain.Width = 1200
	cfg.Domain.Height = 300
	cfg.Domain.Scale = 1
	cfg.Spawn.Jitter = JitterPerlin
	cfg.Spawn.PositionVariance = 30
	cfg.Spawn.Velocity = Vec3{X: 250}
	return cfg
}

// drop3d is the three-dimensional fluid: H is three particle radii and
// gravity pulls along -Z.
func drop3D() *Config {
	cfg := sphBase()
	cfg.Name = "drop3d"
	cfg.Dim = 3
	cfg.Capacity = 1500
	cfg.Domain.Width = 300
	cfg.Domain.Height = 200
	cfg.Domain.Depth = 150
	cfg.Domain.Scale = 3
	cfg.SPH.H = 12
	cfg.SPH.RestDensity = 4e-3
	cfg.SPH.Stiffness = 5e8
	cfg.Domain.CellSize = cfg.SPH.H
	cfg.Spawn.Position = Vec3{X: 20, Y: 100, Z: 120}
	cfg.Spawn.Velocity = Vec3{X: 10}
	cfg.Spawn.PositionVariance = 6
	cfg.Spawn.Rate = 300
	cfg.Gravity = Vec3{Z: -300}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// FindPreset looks a preset up by name across all models.
func FindPreset(preset string) *Config {
	for _, model := range ListModels() {
		if cfg := GetPreset(model, preset); cfg != nil {
			return cfg
		}
	}
	return nil
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModels() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
