// Package viz renders particle simulations in the terminal.
//
// Particles are drawn as coloured disks on a braille [Canvas], where every
// character cell holds a 2x4 block of sub-pixels. Colour follows particle
// speed along the current [Theme]'s ramp. 3D domains are projected through a
// rotatable [Camera].
//
// The live view is a Bubble Tea program:
//
//   - [Model]: one running simulation with a stats panel
//   - [RunInteractive]: preset picker that launches a [Model]
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Rebuild the simulation from its configuration
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	+/-     - Attractor strength
//	x/y/z   - Rotate the 3D camera (shift reverses)
//	?       - Show help overlay
//
// Holding the left mouse button attracts particles to the cursor; the right
// button repels them.
package viz
