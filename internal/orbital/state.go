package orbital

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/physics"
)

// State is a point-mass state in the Earth-centred inertial frame.
type State struct {
	Time float64
	Pos  mgl64.Vec3
	Vel  mgl64.Vec3
}

type Derivative struct {
	DTime float64
	DPos  mgl64.Vec3
	DVel  mgl64.Vec3
}

func (d Derivative) Add(o Derivative) Derivative {
	return Derivative{
		DTime: d.DTime + o.DTime,
		DPos:  d.DPos.Add(o.DPos),
		DVel:  d.DVel.Add(o.DVel),
	}
}

func (d Derivative) Scale(k float64) Derivative {
	return Derivative{
		DTime: d.DTime * k,
		DPos:  d.DPos.Mul(k),
		DVel:  d.DVel.Mul(k),
	}
}

func (s State) Advance(d Derivative, h float64) State {
	return State{
		Time: s.Time + h*d.DTime,
		Pos:  s.Pos.Add(d.DPos.Mul(h)),
		Vel:  s.Vel.Add(d.DVel.Mul(h)),
	}
}

// Radius is the distance from the centre of the Earth.
func (s State) Radius() float64 { return s.Pos.Len() }

// Altitude is the height above the equatorial radius.
func (s State) Altitude() float64 { return s.Pos.Len() - physics.EarthRadiusECI }

func (s State) Speed() float64 { return s.Vel.Len() }

// Energy is the specific orbital energy v^2/2 - mu/r.
func (s State) Energy(mu float64) float64 {
	v := s.Speed()
	return 0.5*v*v - mu/s.Radius()
}

// Elements returns the osculating elements of s.
func (s State) Elements(mu float64) Elements {
	return FromState(s.Pos, s.Vel, mu)
}
