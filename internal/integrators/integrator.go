package integrators

import "fmt"

// Derivative is the rate type of a state: closed under addition and
// scaling, which is all a weighted combination needs.
type Derivative[D any] interface {
	Add(D) D
	Scale(float64) D
}

// State can be advanced by a scaled derivative: x + h*d.
type State[S any, D Derivative[D]] interface {
	Advance(d D, h float64) S
}

// Integrator advances x by one fixed step of size dt under f.
type Integrator[S State[S, D], D Derivative[D]] interface {
	Step(f func(S) D, x S, dt float64) S
	Name() string
}

// ByName returns a fixed-step integrator by its registry name.
func ByName[S State[S, D], D Derivative[D]](name string) (Integrator[S, D], error) {
	switch name {
	case "rk4", "":
		return NewRK4[S, D](), nil
	case "euler":
		return NewEuler[S, D](), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}
