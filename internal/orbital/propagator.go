package orbital

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/physics"
)

// Propagator integrates the two-body problem, optionally with the J2
// oblateness term, at a fixed step.
type Propagator struct {
	Dt    float64
	UseJ2 bool
	Mu    float64

	integrator integrators.Integrator[State, Derivative]
}

// NewPropagator returns an Earth propagator stepping with RK4.
func NewPropagator(dt float64, useJ2 bool) (*Propagator, error) {
	p := &Propagator{
		Dt:         dt,
		UseJ2:      useJ2,
		Mu:         physics.MuEarth,
		integrator: integrators.NewRK4[State, Derivative](),
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Propagator) validate() error {
	if p.Dt <= 0 || math.IsNaN(p.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidOrbit, p.Dt)
	}
	if p.Mu <= 0 {
		return fmt.Errorf("%w: mu must be positive, got %g", ErrInvalidOrbit, p.Mu)
	}
	return nil
}

// Derive is the Cowell equation of motion.
func (p *Propagator) Derive(s State) Derivative {
	return Derivative{DTime: 1, DPos: s.Vel, DVel: physics.CentralGravity(s.Pos, p.Mu, p.UseJ2)}
}

// Steps is the number of samples after the initial one for duration.
func (p *Propagator) Steps(duration float64) int {
	return int(math.Floor(duration/p.Dt + 1e-9))
}

// Propagate returns the trajectory from initial as a sequence: initial
// first, then one state per step. Each range re-propagates from initial.
func (p *Propagator) Propagate(initial State, duration float64) (iter.Seq[State], error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if duration < 0 || math.IsNaN(duration) {
		return nil, fmt.Errorf("%w: duration must be non-negative, got %f", ErrInvalidOrbit, duration)
	}
	if p.integrator == nil {
		p.integrator = integrators.NewRK4[State, Derivative]()
	}

	n := p.Steps(duration)
	return func(yield func(State) bool) {
		x := initial
		if !yield(x) {
			return
		}
		for i := 0; i < n; i++ {
			x = p.integrator.Step(p.Derive, x, p.Dt)
			if !yield(x) {
				return
			}
		}
	}, nil
}

// Trajectory collects Propagate into a slice.
func (p *Propagator) Trajectory(initial State, duration float64) ([]State, error) {
	seq, err := p.Propagate(initial, duration)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// Final propagates for duration and returns only the last state.
func (p *Propagator) Final(initial State, duration float64) (State, error) {
	seq, err := p.Propagate(initial, duration)
	if err != nil {
		return State{}, err
	}
	last := initial
	for x := range seq {
		last = x
	}
	return last, nil
}
