package orbital

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/physics"
	"gonum.org/v1/gonum/mat"
)

// degenerate is the magnitude below which the node vector or the
// eccentricity is treated as zero.
const degenerate = 1e-10

// Elements are the classical Keplerian elements. Angles are in radians.
type Elements struct {
	SMA         float64 // semi-major axis, m
	Ecc         float64
	Inc         float64
	RAAN        float64
	ArgP        float64 // argument of periapsis
	TrueAnomaly float64
}

// Circular returns a circular orbit at altitude above the equatorial
// radius with the node and periapsis at the reference direction.
func Circular(altitude, inc float64) Elements {
	return Elements{SMA: physics.EarthRadiusECI + altitude, Inc: inc}
}

// R1 is the passive rotation by x about the first axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 is the passive rotation by x about the third axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// PQW2ECI is the 3-1-3 rotation from the perifocal frame to ECI.
func PQW2ECI(raan, inc, argp float64) *mat.Dense {
	var tmp, out mat.Dense
	tmp.Mul(R3(-raan), R1(-inc))
	out.Mul(&tmp, R3(-argp))
	return &out
}

func mulVec(m mat.Matrix, v mgl64.Vec3) mgl64.Vec3 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v[0], v[1], v[2]}))
	return mgl64.Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// ToState converts the elements to an ECI position and velocity.
func (e Elements) ToState(mu float64) (pos, vel mgl64.Vec3) {
	p := e.SMA * (1 - e.Ecc*e.Ecc)
	sn, cn := math.Sincos(e.TrueAnomaly)
	r := p / (1 + e.Ecc*cn)
	k := math.Sqrt(mu / p)

	rot := PQW2ECI(e.RAAN, e.Inc, e.ArgP)
	pos = mulVec(rot, mgl64.Vec3{r * cn, r * sn, 0})
	vel = mulVec(rot, mgl64.Vec3{-k * sn, k * (e.Ecc + cn), 0})
	return pos, vel
}

// State returns the orbit as a propagator state at time zero.
func (e Elements) State(mu float64) State {
	pos, vel := e.ToState(mu)
	return State{Pos: pos, Vel: vel}
}

// FromState recovers the elements of an ECI state. Undefined angles fall
// back to zero: RAAN for equatorial orbits, the argument of periapsis for
// equatorial or circular orbits and the true anomaly for circular orbits.
func FromState(pos, vel mgl64.Vec3, mu float64) Elements {
	r := pos.Len()
	v := vel.Len()

	h := pos.Cross(vel)
	hMag := h.Len()
	n := mgl64.Vec3{-h.Y(), h.X(), 0}
	nMag := n.Len()

	eVec := pos.Mul(v*v - mu/r).Sub(vel.Mul(pos.Dot(vel))).Mul(1 / mu)
	ecc := eVec.Len()

	var out Elements
	out.Ecc = ecc

	if ecc < 1-degenerate {
		energy := 0.5*v*v - mu/r
		out.SMA = -mu / (2 * energy)
	} else {
		out.SMA = hMag * hMag / (mu * math.Abs(1-ecc*ecc))
	}

	if hMag > 0 {
		out.Inc = math.Acos(clamp(h.Z() / hMag))
	}

	if nMag > degenerate {
		out.RAAN = math.Acos(clamp(n.X() / nMag))
		if n.Y() < 0 {
			out.RAAN = 2*math.Pi - out.RAAN
		}
	}

	if nMag > degenerate && ecc > degenerate {
		out.ArgP = math.Acos(clamp(n.Dot(eVec) / (nMag * ecc)))
		if eVec.Z() < 0 {
			out.ArgP = 2*math.Pi - out.ArgP
		}
	}

	if ecc > degenerate {
		out.TrueAnomaly = math.Acos(clamp(eVec.Dot(pos) / (ecc * r)))
		if pos.Dot(vel) < 0 {
			out.TrueAnomaly = 2*math.Pi - out.TrueAnomaly
		}
	}

	return out
}

// Period is the orbital period of an elliptical orbit.
func (e Elements) Period(mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(e.SMA*e.SMA*e.SMA/mu)
}

// Periapsis and Apoapsis are radii, not altitudes.
func (e Elements) Periapsis() float64 { return e.SMA * (1 - e.Ecc) }
func (e Elements) Apoapsis() float64  { return e.SMA * (1 + e.Ecc) }

func (e Elements) String() string {
	deg := 180 / math.Pi
	return fmt.Sprintf("a=%.1f km e=%.6f i=%.4f° Ω=%.4f° ω=%.4f° ν=%.4f°",
		e.SMA/1000, e.Ecc, e.Inc*deg, e.RAAN*deg, e.ArgP*deg, e.TrueAnomaly*deg)
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
