// Package physics provides the environment and force models used by the
// flight and orbital simulators.
//
// Every function is pure:
//
//   - [Atmosphere]: seven-layer ISA 1976 standard atmosphere, 0-86 km
//   - [FlightGravity]: inverse-square gravity in the local flight frame
//   - [Gravity]: ECI point-mass gravity with an optional [J2] term
//   - [Aerodynamics]: drag, static restoring and rate damping moments
//
// # Frames
//
// The flight simulator uses a flat local ENU frame with +Z up and altitude
// equal to Z. The orbital propagator uses ECI with the origin at the centre
// of the Earth. Use [FlightGravity] for the former and [Gravity] for the
// latter.
package physics
