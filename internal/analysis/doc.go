// Package analysis provides spectral tools for recorded metric series, such
// as finding the sloshing period of a settling fluid from its kinetic energy.
package analysis
