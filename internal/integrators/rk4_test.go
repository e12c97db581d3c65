package integrators

import (
	"math"
	"testing"
)

// oscillator is x'' = -x with an explicit clock.
type oscillator struct {
	t, x, v float64
}

type oscillatorRate struct {
	dt, dx, dv float64
}

func (d oscillatorRate) Add(o oscillatorRate) oscillatorRate {
	return oscillatorRate{d.dt + o.dt, d.dx + o.dx, d.dv + o.dv}
}

func (d oscillatorRate) Scale(k float64) oscillatorRate {
	return oscillatorRate{d.dt * k, d.dx * k, d.dv * k}
}

func (s oscillator) Advance(d oscillatorRate, h float64) oscillator {
	return oscillator{s.t + h*d.dt, s.x + h*d.dx, s.v + h*d.dv}
}

func harmonic(s oscillator) oscillatorRate {
	return oscillatorRate{1, s.v, -s.x}
}

func run(integ Integrator[oscillator, oscillatorRate], dt float64, steps int) oscillator {
	x := oscillator{x: 1}
	for i := 0; i < steps; i++ {
		x = integ.Step(harmonic, x, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dt := 0.01
	steps := 100
	x := run(NewRK4[oscillator, oscillatorRate](), dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x.x-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x.x, expectedX)
	}
	if math.Abs(x.v-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x.v, expectedV)
	}
}

func TestStepAdvancesClockByDt(t *testing.T) {
	for _, name := range []string{"rk4", "euler"} {
		t.Run(name, func(t *testing.T) {
			integ, err := ByName[oscillator, oscillatorRate](name)
			if err != nil {
				t.Fatal(err)
			}
			x := run(integ, 0.25, 4)
			if math.Abs(x.t-1.0) > 1e-12 {
				t.Errorf("expected t=1, got %.17f", x.t)
			}
		})
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	dt := 0.05
	steps := 200
	exact := math.Cos(float64(steps) * dt)

	rk4 := math.Abs(run(NewRK4[oscillator, oscillatorRate](), dt, steps).x - exact)
	euler := math.Abs(run(NewEuler[oscillator, oscillatorRate](), dt, steps).x - exact)

	if rk4 >= euler {
		t.Errorf("expected rk4 error %g < euler error %g", rk4, euler)
	}
}

func TestRK4FourthOrderConvergence(t *testing.T) {
	exact := math.Cos(2.0)
	coarse := math.Abs(run(NewRK4[oscillator, oscillatorRate](), 0.1, 20).x - exact)
	fine := math.Abs(run(NewRK4[oscillator, oscillatorRate](), 0.05, 40).x - exact)

	ratio := coarse / fine
	if ratio < 12 || ratio > 20 {
		t.Errorf("expected error ratio near 16 when halving dt, got %f", ratio)
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName[oscillator, oscillatorRate]("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
