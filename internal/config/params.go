package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// params maps dotted names to the tunable float fields of a Config. Sweeps,
// scenarios and the --set flag go through it.
var params = map[string]func(c *Config) *float64{
	"dt":                    func(c *Config) *float64 { return &c.Dt },
	"gravity.x":             func(c *Config) *float64 { return &c.Gravity.X },
	"gravity.y":             func(c *Config) *float64 { return &c.Gravity.Y },
	"gravity.z":             func(c *Config) *float64 { return &c.Gravity.Z },
	"domain.width":          func(c *Config) *float64 { return &c.Domain.Width },
	"domain.height":         func(c *Config) *float64 { return &c.Domain.Height },
	"domain.depth":          func(c *Config) *float64 { return &c.Domain.Depth },
	"domain.cell_size":      func(c *Config) *float64 { return &c.Domain.CellSize },
	"domain.damping":        func(c *Config) *float64 { return &c.Domain.Damping },
	"spawn.rate":            func(c *Config) *float64 { return &c.Spawn.Rate },
	"spawn.radius":          func(c *Config) *float64 { return &c.Spawn.Radius },
	"spawn.mass":            func(c *Config) *float64 { return &c.Spawn.Mass },
	"spawn.position_var":    func(c *Config) *float64 { return &c.Spawn.PositionVariance },
	"spawn.velocity_var":    func(c *Config) *float64 { return &c.Spawn.VelocityVariance },
	"attractor.strength":    func(c *Config) *float64 { return &c.Attractor.Strength },
	"repulsion.stiffness":   func(c *Config) *float64 { return &c.Repulsion.Stiffness },
	"sph.h":                 func(c *Config) *float64 { return &c.SPH.H },
	"sph.rest_density":      func(c *Config) *float64 { return &c.SPH.RestDensity },
	"sph.stiffness":         func(c *Config) *float64 { return &c.SPH.Stiffness },
	"sph.viscosity":         func(c *Config) *float64 { return &c.SPH.Viscosity },
	"sph.tension":           func(c *Config) *float64 { return &c.SPH.Tension },
	"sph.tension_threshold": func(c *Config) *float64 { return &c.SPH.TensionThreshold },
}

func (c *Config) SetParam(name string, value float64) error {
	fn, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	*fn(c) = value
	return nil
}

func (c *Config) Param(name string) (float64, error) {
	fn, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	return *fn(c), nil
}

// ApplyAssignment parses "name=value" and sets the parameter.
func (c *Config) ApplyAssignment(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("%w: expected name=value, got %q", ErrInvalidConfig, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	return c.SetParam(strings.TrimSpace(name), v)
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
