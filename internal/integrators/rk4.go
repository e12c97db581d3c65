package integrators

// RK4 is the classical fourth-order Runge-Kutta method.
type RK4[S State[S, D], D Derivative[D]] struct{}

func NewRK4[S State[S, D], D Derivative[D]]() *RK4[S, D] {
	return &RK4[S, D]{}
}

func (r *RK4[S, D]) Name() string { return "rk4" }

func (r *RK4[S, D]) Step(f func(S) D, x S, dt float64) S {
	half := dt * 0.5

	k1 := f(x)
	k2 := f(x.Advance(k1, half))
	k3 := f(x.Advance(k2, half))
	k4 := f(x.Advance(k3, dt))

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.Advance(sum, dt/6.0)
}
