// Package dynamo provides the core state primitives for flight simulation.
//
// The package defines the types shared by the physics, control and runner
// packages:
//
//   - [State]: position, velocity, attitude, body rate, mass, stage
//   - [Derivative]: time-derivative of a State, closed under Add and Scale
//   - [GncCommand]: gimbal deflection request for one tick
//   - [Config]: fixed step size and run bounds
//   - [Metric]: per-tick observer that reduces a run to a scalar
//
// # Integration
//
// State and Derivative satisfy the constraints of the generic integrators:
//
//	rk4 := integrators.NewRK4[dynamo.State, dynamo.Derivative]()
//	next := rk4.Step(f, x, cfg.Dt).Normalized()
//
// # Thread Safety
//
// All types are plain values. A State may be shared freely between
// goroutines once produced.
package dynamo
