// Package engine owns the particle population and advances it one fixed
// time slice at a time.
//
// A step runs the same fixed sequence every time:
//
//  1. spawn new particles from the rate accumulator, up to capacity
//  2. rebuild the spatial grid from current positions
//  3. let the interaction model accumulate pair forces
//  4. add the optional pointer attractor
//  5. integrate every particle (force + gravity), clear its force and
//     apply the domain boundaries
//
// No particle moves before every force of the step has been accumulated.
// The engine performs no timing or I/O; callers decide how many steps make
// a rendered frame.
package engine
