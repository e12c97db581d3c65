package sim

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamics"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

const (
	// liftoffAltitude is the height the vehicle must clear before LIFTOFF.
	// Runs starting above it are airborne from the first tick.
	liftoffAltitude = 1.0

	// burnTimeTolerance absorbs the rounding of accumulated tick times.
	burnTimeTolerance = 1e-9
)

// EOM evaluates the equations of motion under a fixed command.
type EOM interface {
	Derive(x dynamo.State, cmd dynamo.GncCommand) (dynamo.Derivative, error)
}

// Integrator is the flight-state instantiation of the generic stepper.
type Integrator = integrators.Integrator[dynamo.State, dynamo.Derivative]

// Runner flies one mission under one controller.
type Runner struct {
	mission    *vehicle.Mission
	eom        EOM
	controller control.Controller
	integrator Integrator
	detectors  []Detector
	metrics    []dynamo.Metric
}

type Option func(*Runner)

func WithIntegrator(i Integrator) Option {
	return func(r *Runner) { r.integrator = i }
}

func WithDetector(d Detector) Option {
	return func(r *Runner) { r.detectors = append(r.detectors, d) }
}

func WithEOM(e EOM) Option {
	return func(r *Runner) { r.eom = e }
}

func WithMetric(m dynamo.Metric) Option {
	return func(r *Runner) { r.metrics = append(r.metrics, m) }
}

// New returns a runner using the 6DOF model and RK4 unless overridden.
func New(m *vehicle.Mission, ctrl control.Controller, opts ...Option) *Runner {
	r := &Runner{
		mission:    m,
		eom:        dynamics.NewSixDOF(m),
		controller: ctrl,
		integrator: integrators.NewRK4[dynamo.State, dynamo.Derivative](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) AddMetric(m dynamo.Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) Mission() *vehicle.Mission      { return r.mission }
func (r *Runner) Controller() control.Controller { return r.controller }

// flight tracks the once-only bookkeeping of a run.
type flight struct {
	lifted    bool
	apogee    bool
	burnedOut []bool
	ignition  []float64
}

// Run flies the mission until landing, max time, an abort or ctx is done.
// Aborts are reported through Result.Err; only an invalid config or a
// canceled context produce a non-nil error.
func (r *Runner) Run(ctx context.Context, cfg dynamo.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := r.mission.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}

	steps := cfg.Steps()
	result := &Result{
		Mission:    r.mission.Name,
		Controller: r.controller.Name(),
		Dt:         cfg.Dt,
		States:     make([]dynamo.State, 0, min(steps+1, 1<<16)),
		Commands:   make([]dynamo.GncCommand, 0, min(steps+1, 1<<16)),
		Metrics:    make(map[string]float64),
		Outcome:    OutcomeTimeLimit,
	}

	if rs, ok := r.controller.(control.Resetter); ok {
		rs.Reset()
	}
	for _, d := range r.detectors {
		d.Reset()
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	x := dynamo.NewState(r.mission.TotalMass(), cfg.InitialAltitude)
	result.States = append(result.States, x)
	result.Commands = append(result.Commands, dynamo.GncCommand{})

	fl := &flight{
		lifted:    cfg.InitialAltitude > liftoffAltitude,
		burnedOut: make([]bool, len(r.mission.Stages)),
		ignition:  make([]float64, len(r.mission.Stages)),
	}

	defer r.collectMetrics(result)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Outcome = OutcomeCanceled
			return result, fmt.Errorf("%w at t=%.3f: %w", dynamo.ErrContextCanceled, x.Time, ctx.Err())
		default:
		}

		cmd := r.controller.Control(x, r.mission, cfg.Dt)
		if !cmd.IsValid() {
			r.abort(result, i, x, fmt.Errorf("%w: %+v", dynamo.ErrInvalidCommand, cmd))
			return result, nil
		}

		var eomErr error
		f := func(s dynamo.State) dynamo.Derivative {
			d, err := r.eom.Derive(s, cmd)
			if err != nil && eomErr == nil {
				eomErr = err
			}
			return d
		}
		next := r.integrator.Step(f, x, cfg.Dt).Normalized()
		if eomErr != nil {
			r.abort(result, i, x, eomErr)
			return result, nil
		}
		if !next.IsValid() {
			r.abort(result, i, x, dynamo.ErrInvalidState)
			return result, nil
		}

		r.stage(&next, fl, result)
		landed := r.detect(x, &next, fl, result)

		result.States = append(result.States, next)
		result.Commands = append(result.Commands, cmd)
		result.StepsTaken++

		for _, m := range r.metrics {
			m.Observe(x, next, cmd)
		}

		x = next
		if landed {
			result.Outcome = OutcomeLanded
			break
		}
	}

	return result, nil
}

func (r *Runner) abort(result *Result, step int, last dynamo.State, err error) {
	result.Outcome = OutcomeAborted
	result.Err = &dynamo.SimulationError{Step: step, Time: last.Time, State: last, Wrapped: err}
}

func (r *Runner) collectMetrics(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// stage records burnout of the active stage and jettisons it when another
// stage remains above it. The final stage is kept as a ballistic body.
func (r *Runner) stage(x *dynamo.State, fl *flight, result *Result) {
	idx := x.Stage
	s, ok := r.mission.Stage(idx)
	if !ok || fl.burnedOut[idx] {
		return
	}
	remaining := r.mission.RemainingPropellant(idx, x.Mass)
	if !spent(s, x.Time-fl.ignition[idx], remaining) {
		return
	}

	fl.burnedOut[idx] = true
	result.Events = append(result.Events, newEvent(EventBurnout, *x))

	if r.mission.IsLastStage(idx) {
		return
	}
	// Unburnt propellant leaves with the spent stage.
	x.Mass -= s.DryMass + max(remaining, 0)
	x.Stage = idx + 1
	fl.ignition[idx+1] = x.Time

	e := newEvent(EventStaging, *x)
	e.Stage = idx
	e.ToStage = idx + 1
	result.Events = append(result.Events, e)
}

// spent reports whether a stage that has been active for burned seconds is
// out of propellant or past its burn time. A stage without thrust is spent
// on ignition.
func spent(s vehicle.Stage, burned, remaining float64) bool {
	if s.Thrust <= 0 || remaining <= dynamics.PropellantReserve {
		return true
	}
	return burned >= s.BurnTime()-burnTimeTolerance
}

// detect appends the built-in and user events for the tick prev -> cur
// and reports whether the vehicle has landed. A landing clamps cur to the
// ground.
func (r *Runner) detect(prev dynamo.State, cur *dynamo.State, fl *flight, result *Result) bool {
	if !fl.lifted && cur.Altitude() < 0 {
		// Still on the pad: thrust has not yet overcome weight.
		cur.Pos = prev.Pos
		cur.Vel = mgl64.Vec3{}
	}
	if !fl.lifted && cur.Altitude() > liftoffAltitude {
		fl.lifted = true
		result.Events = append(result.Events, newEvent(EventLiftoff, *cur))
	}

	if fl.lifted && !fl.apogee && prev.VerticalSpeed() > 0 && cur.VerticalSpeed() <= 0 {
		fl.apogee = true
		result.Events = append(result.Events, newEvent(EventApogee, *cur))
	}

	for _, d := range r.detectors {
		if e, ok := d.Detect(prev, *cur); ok {
			result.Events = append(result.Events, e)
		}
	}

	if fl.lifted && cur.Altitude() <= 0 {
		cur.Pos[2] = 0
		result.Events = append(result.Events, newEvent(EventLanding, *cur))
		return true
	}
	return false
}
