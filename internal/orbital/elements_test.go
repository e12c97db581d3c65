package orbital

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func TestFromStateVallado(t *testing.T) {
	// Vallado example 2-5, km and km/s.
	const mu = 398600.4418
	pos := mgl64.Vec3{6524.834, 6862.875, 6448.296}
	vel := mgl64.Vec3{4.901327, 5.533756, -1.976341}

	el := FromState(pos, vel, mu)

	assert.InDelta(t, 36127.343, el.SMA, 0.5)
	assert.InDelta(t, 0.832853, el.Ecc, 1e-5)
	assert.InDelta(t, deg2rad(87.869126), el.Inc, 1e-5)
	assert.InDelta(t, deg2rad(227.898260), el.RAAN, 1e-5)
	assert.InDelta(t, deg2rad(53.384931), el.ArgP, 1e-5)
	assert.InDelta(t, deg2rad(92.335157), el.TrueAnomaly, 1e-5)
}

func TestElementsRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		el   Elements
	}{
		{"elliptical", Elements{SMA: 8_000_000, Ecc: 0.1, Inc: 0.5, RAAN: 1.0, ArgP: 0.7, TrueAnomaly: 2.0}},
		{"descending", Elements{SMA: 7_200_000, Ecc: 0.02, Inc: 1.2, RAAN: 4.0, ArgP: 5.0, TrueAnomaly: 4.5}},
		{"retrograde", Elements{SMA: 26_000_000, Ecc: 0.7, Inc: 2.5, RAAN: 0.3, ArgP: 3.0, TrueAnomaly: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := tt.el.ToState(physics.MuEarth)
			got := FromState(pos, vel, physics.MuEarth)

			assert.InEpsilon(t, tt.el.SMA, got.SMA, 1e-9)
			assert.InDelta(t, tt.el.Ecc, got.Ecc, 1e-9)
			assert.InDelta(t, tt.el.Inc, got.Inc, 1e-9)
			assert.InDelta(t, tt.el.RAAN, got.RAAN, 1e-9)
			assert.InDelta(t, tt.el.ArgP, got.ArgP, 1e-7)
			assert.InDelta(t, tt.el.TrueAnomaly, got.TrueAnomaly, 1e-7)
		})
	}
}

func TestCircularOrbitState(t *testing.T) {
	el := Circular(400_000, deg2rad(51.6))
	pos, vel := el.ToState(physics.MuEarth)

	assert.InDelta(t, physics.EarthRadiusECI+400_000, pos.Len(), 1e-6)
	assert.InDelta(t, CircularVelocity(pos.Len(), physics.MuEarth), vel.Len(), 1e-9)
	assert.InDelta(t, 0, pos.Dot(vel), 1e-3)

	got := FromState(pos, vel, physics.MuEarth)
	assert.InEpsilon(t, el.SMA, got.SMA, 1e-9)
	assert.Less(t, got.Ecc, 1e-10)
	assert.InDelta(t, el.Inc, got.Inc, 1e-12)
	assert.Zero(t, got.ArgP)
	assert.Zero(t, got.TrueAnomaly)
}

func TestEquatorialFallbacks(t *testing.T) {
	el := Elements{SMA: 7_000_000, Ecc: 0.05, TrueAnomaly: 1.0}
	pos, vel := el.ToState(physics.MuEarth)
	got := FromState(pos, vel, physics.MuEarth)

	assert.Zero(t, got.RAAN)
	assert.Zero(t, got.ArgP)
	assert.InDelta(t, 0, got.Inc, 1e-12)
	assert.InDelta(t, 1.0, got.TrueAnomaly, 1e-9)
}

func TestHyperbolicSemiMajorAxis(t *testing.T) {
	r := 7_000_000.0
	v := 1.2 * math.Sqrt(2*physics.MuEarth/r)
	got := FromState(mgl64.Vec3{r, 0, 0}, mgl64.Vec3{0, v, 0}, physics.MuEarth)

	require.Greater(t, got.Ecc, 1.0)
	h := r * v
	assert.InEpsilon(t, h*h/(physics.MuEarth*(got.Ecc*got.Ecc-1)), got.SMA, 1e-12)
}

func TestPeriod(t *testing.T) {
	iss := Circular(420_000, deg2rad(51.6))
	p := iss.Period(physics.MuEarth)
	assert.Greater(t, p, 5400.0)
	assert.Less(t, p, 5700.0)
}

func TestPQW2ECIIsRotation(t *testing.T) {
	rot := PQW2ECI(1.1, 0.4, 2.3)
	v := mgl64.Vec3{1, 2, 3}
	got := mulVec(rot, v)
	assert.InDelta(t, v.Len(), got.Len(), 1e-12)

	// The third column is the orbit normal.
	n := mulVec(rot, mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, math.Cos(0.4), n.Z(), 1e-12)
}

func TestElementsString(t *testing.T) {
	s := Circular(400_000, 0).String()
	assert.Contains(t, s, "a=6778.1 km")
	assert.Contains(t, s, "e=0.000000")
}
