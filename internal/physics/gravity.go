package physics

import "github.com/go-gl/mathgl/mgl64"

// FlightGravity is the inverse-square gravity vector in the local ENU flight
// frame, pointing along -Z.
func FlightGravity(altitude float64) mgl64.Vec3 {
	r := EarthRadius / (EarthRadius + altitude)
	return mgl64.Vec3{0, 0, -G0 * r * r}
}

// PointMass is the two-body acceleration at an ECI position.
func PointMass(pos mgl64.Vec3) mgl64.Vec3 {
	return pointMass(pos, MuEarth)
}

// J2 is the oblateness correction to PointMass at an ECI position.
func J2(pos mgl64.Vec3) mgl64.Vec3 {
	return j2(pos, MuEarth)
}

// Gravity returns the ECI gravitational acceleration, optionally with the J2
// term.
func Gravity(pos mgl64.Vec3, useJ2 bool) mgl64.Vec3 {
	return CentralGravity(pos, MuEarth, useJ2)
}

// CentralGravity is Gravity for a body with gravitational parameter mu and
// Earth's shape. Both terms scale with mu.
func CentralGravity(pos mgl64.Vec3, mu float64, useJ2 bool) mgl64.Vec3 {
	g := pointMass(pos, mu)
	if useJ2 {
		g = g.Add(j2(pos, mu))
	}
	return g
}

func pointMass(pos mgl64.Vec3, mu float64) mgl64.Vec3 {
	r := pos.Len()
	if r < 1 {
		return mgl64.Vec3{}
	}
	return pos.Mul(-mu / (r * r * r))
}

func j2(pos mgl64.Vec3, mu float64) mgl64.Vec3 {
	r := pos.Len()
	if r < 1 {
		return mgl64.Vec3{}
	}
	r2 := r * r
	z2r2 := pos.Z() * pos.Z() / r2
	k := 1.5 * J2Earth * EarthRadiusECI * EarthRadiusECI / r2
	mur3 := mu / (r2 * r)

	return mgl64.Vec3{
		-mur3 * pos.X() * k * (1 - 5*z2r2),
		-mur3 * pos.Y() * k * (1 - 5*z2r2),
		-mur3 * pos.Z() * k * (3 - 5*z2r2),
	}
}
