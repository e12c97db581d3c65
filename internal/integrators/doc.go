// Package integrators provides fixed-step ODE solvers that work over any
// state type.
//
// A state type S must implement Advance(D, h) S and its rate type D must
// implement Add and Scale. The flight state in package dynamo and the
// orbital state in package orbital both qualify:
//
//	rk4 := integrators.NewRK4[orbital.State, orbital.Derivative]()
//	next := rk4.Step(f, x, dt)
//
// Solvers hold no per-step state and may be shared between goroutines.
package integrators
