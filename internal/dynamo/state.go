package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the instantaneous rigid-body state of the vehicle. Position and
// velocity are in the inertial (local ENU) frame, Att rotates body vectors
// into that frame and Omega is the body-frame angular rate.
type State struct {
	Time  float64
	Pos   mgl64.Vec3
	Vel   mgl64.Vec3
	Att   mgl64.Quat
	Omega mgl64.Vec3
	Mass  float64
	Stage int
}

// Derivative is the time-derivative of every continuous State component.
// DTime is the rate of mission time, 1 for physical derivatives.
type Derivative struct {
	DTime  float64
	DPos   mgl64.Vec3
	DVel   mgl64.Vec3
	DAtt   mgl64.Quat
	DOmega mgl64.Vec3
	DMass  float64
}

// NewState returns a vehicle at rest at the given altitude, pointing up.
func NewState(mass, altitude float64) State {
	return State{
		Pos:  mgl64.Vec3{0, 0, altitude},
		Att:  mgl64.QuatIdent(),
		Mass: mass,
	}
}

// Add returns d + o.
func (d Derivative) Add(o Derivative) Derivative {
	return Derivative{
		DTime:  d.DTime + o.DTime,
		DPos:   d.DPos.Add(o.DPos),
		DVel:   d.DVel.Add(o.DVel),
		DAtt:   d.DAtt.Add(o.DAtt),
		DOmega: d.DOmega.Add(o.DOmega),
		DMass:  d.DMass + o.DMass,
	}
}

// Scale returns k * d.
func (d Derivative) Scale(k float64) Derivative {
	return Derivative{
		DTime:  d.DTime * k,
		DPos:   d.DPos.Mul(k),
		DVel:   d.DVel.Mul(k),
		DAtt:   d.DAtt.Scale(k),
		DOmega: d.DOmega.Mul(k),
		DMass:  d.DMass * k,
	}
}

// Advance returns s + h*d. The attitude is not renormalized here; callers
// do that once per completed step with Normalized.
func (s State) Advance(d Derivative, h float64) State {
	next := s
	next.Time += h * d.DTime
	next.Pos = s.Pos.Add(d.DPos.Mul(h))
	next.Vel = s.Vel.Add(d.DVel.Mul(h))
	next.Att = s.Att.Add(d.DAtt.Scale(h))
	next.Omega = s.Omega.Add(d.DOmega.Mul(h))
	next.Mass = math.Max(s.Mass+h*d.DMass, 0)
	return next
}

// Normalized returns s with a unit attitude quaternion.
func (s State) Normalized() State {
	s.Att = s.Att.Normalize()
	return s
}

// Altitude is the height above the launch site.
func (s State) Altitude() float64 { return s.Pos.Z() }

// Speed is the magnitude of the inertial velocity.
func (s State) Speed() float64 { return s.Vel.Len() }

// VerticalSpeed is the Z component of velocity.
func (s State) VerticalSpeed() float64 { return s.Vel.Z() }

// BodyAxis is the body +Z (thrust) axis expressed in the inertial frame.
func (s State) BodyAxis() mgl64.Vec3 {
	return s.Att.Rotate(mgl64.Vec3{0, 0, 1})
}

// Pitch is the elevation of the body axis above the horizon, radians.
func (s State) Pitch() float64 {
	return math.Asin(clamp(s.BodyAxis().Z(), -1, 1))
}

// AngleOfAttack is the angle between the body axis and the velocity
// vector. It is zero below 1 m/s where the direction is undefined.
func (s State) AngleOfAttack() float64 {
	speed := s.Speed()
	if speed < 1 {
		return 0
	}
	return math.Acos(clamp(s.Vel.Dot(s.BodyAxis())/speed, -1, 1))
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	vals := []float64{s.Time, s.Mass, s.Att.W}
	vals = append(vals, s.Pos[:]...)
	vals = append(vals, s.Vel[:]...)
	vals = append(vals, s.Att.V[:]...)
	vals = append(vals, s.Omega[:]...)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// GncCommand is the actuator request for one tick, gimbal deflections in
// radians. GimbalY tilts thrust toward body +Y (pitch plane) and GimbalZ
// toward body +X (yaw plane).
type GncCommand struct {
	GimbalY float64
	GimbalZ float64
}

// IsValid reports whether both deflections are finite.
func (c GncCommand) IsValid() bool {
	for _, v := range []float64{c.GimbalY, c.GimbalZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
