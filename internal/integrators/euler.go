package integrators

// Euler is the explicit first-order method. It exists for comparison
// against RK4.
type Euler[S State[S, D], D Derivative[D]] struct{}

func NewEuler[S State[S, D], D Derivative[D]]() *Euler[S, D] {
	return &Euler[S, D]{}
}

func (e *Euler[S, D]) Name() string { return "euler" }

func (e *Euler[S, D]) Step(f func(S) D, x S, dt float64) S {
	return x.Advance(f(x), dt)
}
