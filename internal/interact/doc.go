// Package interact provides the interaction models that turn particle
// positions and velocities into per-particle forces.
//
// Exactly two models exist:
//
//   - [Repulsion]: short-range spring repulsion between overlapping disks or
//     spheres, one evaluation per unordered pair so the forces are exactly
//     equal and opposite.
//   - [SPH]: smoothed particle hydrodynamics with density, pressure,
//     viscosity and surface tension built on the [Kernels] weighting
//     functions.
//
// Both models walk the [grid.Grid] rebuilt by the caller for the current step
// and only ever add to [particle.Particle.Force]. [Attractor] is the external
// point force applied on top of either model.
package interact
