package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// NormalForceSlope is the normal-force coefficient derivative CN_alpha
	// per radian of angle of attack.
	NormalForceSlope = 2.0
	// PitchDampingCoefficient scales the rate-damping moment q*A*Cmq*omega.
	PitchDampingCoefficient = 0.5

	minDragSpeed = 1e-6
	minAeroSpeed = 1.0
	minCPOffset  = 1e-6
)

// Airframe holds the aerodynamic properties of the current vehicle stack.
type Airframe struct {
	Cd       float64 // drag coefficient
	Area     float64 // reference area, m^2
	CPOffset float64 // centre of pressure aft of the centre of mass, m
}

// Loads are the aerodynamic force (inertial frame) and moments (body frame).
type Loads struct {
	Drag      mgl64.Vec3
	Restoring mgl64.Vec3
	Damping   mgl64.Vec3
}

// Torque is the total aerodynamic moment in the body frame.
func (l Loads) Torque() mgl64.Vec3 {
	return l.Restoring.Add(l.Damping)
}

// Drag returns the drag force opposing the air-relative velocity. Below
// 1e-6 m/s the direction is undefined and the force is zero.
func Drag(vRel mgl64.Vec3, density float64, af Airframe) mgl64.Vec3 {
	speed := vRel.Len()
	if speed <= minDragSpeed {
		return mgl64.Vec3{}
	}
	q := 0.5 * density * speed * speed
	return vRel.Mul(-q * af.Cd * af.Area / speed)
}

// Aerodynamics assembles drag plus the static restoring and rate damping
// moments. att rotates body to inertial, omega is the body angular rate.
func Aerodynamics(vRel mgl64.Vec3, att mgl64.Quat, omega mgl64.Vec3, af Airframe, density float64) Loads {
	loads := Loads{Drag: Drag(vRel, density, af)}

	speed := vRel.Len()
	if speed <= minAeroSpeed {
		return loads
	}
	q := 0.5 * density * speed * speed

	if math.Abs(af.CPOffset) > minCPOffset {
		vb := att.Conjugate().Rotate(vRel)
		alphaY := math.Atan2(vb.Y(), vb.Z())
		alphaX := math.Atan2(vb.X(), vb.Z())
		n := q * af.Area * NormalForceSlope
		loads.Restoring = mgl64.Vec3{-n * alphaY * af.CPOffset, n * alphaX * af.CPOffset, 0}
	}

	loads.Damping = omega.Mul(-q * af.Area * PitchDampingCoefficient)
	return loads
}
