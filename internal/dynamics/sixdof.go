package dynamics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// PropellantReserve is the residual propellant, kg, below which a stage
// counts as burnt out.
const PropellantReserve = 0.01

// SixDOF assembles the rigid-body equations of motion for a mission.
type SixDOF struct {
	mission *vehicle.Mission
}

func NewSixDOF(m *vehicle.Mission) *SixDOF {
	return &SixDOF{mission: m}
}

// Burning reports whether the active stage is producing thrust.
func (s *SixDOF) Burning(x dynamo.State) bool {
	stage, ok := s.mission.Stage(x.Stage)
	if !ok || stage.Thrust <= 0 {
		return false
	}
	return s.mission.RemainingPropellant(x.Stage, x.Mass) > PropellantReserve
}

// ThrustBody is the thrust vector in the body frame for the given gimbal
// deflections, clamped to the stage limit.
func ThrustBody(thrust float64, stage vehicle.Stage, cmd dynamo.GncCommand) mgl64.Vec3 {
	gy := clamp(cmd.GimbalY, -stage.TVCMax, stage.TVCMax)
	gz := clamp(cmd.GimbalZ, -stage.TVCMax, stage.TVCMax)
	return mgl64.Vec3{
		thrust * math.Sin(gz),
		thrust * math.Sin(gy),
		thrust * math.Cos(gy) * math.Cos(gz),
	}
}

// Derive returns dx/dt at x under cmd. A non-nil error reports a physically
// invalid configuration; the returned derivative then carries no linear
// acceleration or mass flow so it stays finite.
func (s *SixDOF) Derive(x dynamo.State, cmd dynamo.GncCommand) (dynamo.Derivative, error) {
	att := x.Att.Normalize()
	d := dynamo.Derivative{
		DTime: 1,
		DPos:  x.Vel,
		DAtt:  att.Mul(mgl64.Quat{W: 0, V: x.Omega}).Scale(0.5),
	}

	if x.Mass <= 0 {
		return d, fmt.Errorf("%w: vehicle mass %.6f kg", dynamo.ErrInvalidConfig, x.Mass)
	}

	gravity := physics.FlightGravity(x.Altitude())

	stage, ok := s.mission.Stage(x.Stage)
	if !ok {
		d.DVel = gravity
		return d, nil
	}

	force := gravity.Mul(x.Mass)
	torque := mgl64.Vec3{}

	if s.Burning(x) {
		if stage.Isp <= 0 {
			return d, fmt.Errorf("%w: stage %q has isp %.3f", dynamo.ErrInvalidConfig, stage.Name, stage.Isp)
		}
		fb := ThrustBody(stage.Thrust, stage, cmd)
		force = force.Add(att.Rotate(fb))
		nozzle := mgl64.Vec3{0, 0, -stage.NozzleOffset}
		torque = torque.Add(nozzle.Cross(fb))
		d.DMass = -stage.MassFlow()
	}

	loads := physics.Aerodynamics(x.Vel, att, x.Omega, stage.Airframe(), physics.Density(x.Altitude()))
	force = force.Add(loads.Drag)
	torque = torque.Add(loads.Torque())

	d.DVel = force.Mul(1 / x.Mass)
	d.DOmega = eulerRates(stage.Inertia, x.Omega, torque)
	return d, nil
}

// eulerRates solves Euler's rotation equation for a diagonal inertia
// tensor: I w' = tau - w x (I w).
func eulerRates(inertia, omega, torque mgl64.Vec3) mgl64.Vec3 {
	iw := mgl64.Vec3{inertia[0] * omega[0], inertia[1] * omega[1], inertia[2] * omega[2]}
	net := torque.Sub(omega.Cross(iw))
	var out mgl64.Vec3
	for i := range out {
		if inertia[i] > 0 {
			out[i] = net[i] / inertia[i]
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
