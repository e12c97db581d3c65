package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestFlightGravity(t *testing.T) {
	g := FlightGravity(0)
	if !scalar.EqualWithinAbs(g.Z(), -G0, 1e-12) {
		t.Errorf("expected -g0 at surface, got %f", g.Z())
	}
	if g.X() != 0 || g.Y() != 0 {
		t.Errorf("expected purely vertical gravity, got %v", g)
	}

	high := FlightGravity(EarthRadius)
	if !scalar.EqualWithinAbs(high.Z(), -G0/4, 1e-12) {
		t.Errorf("expected g0/4 at one radius, got %f", high.Z())
	}
}

func TestPointMass(t *testing.T) {
	pos := mgl64.Vec3{EarthRadiusECI, 0, 0}
	g := PointMass(pos)
	want := MuEarth / (EarthRadiusECI * EarthRadiusECI)

	if !scalar.EqualWithinRel(-g.X(), want, 1e-12) {
		t.Errorf("expected %f, got %f", want, -g.X())
	}
	if PointMass(mgl64.Vec3{}) != (mgl64.Vec3{}) {
		t.Error("expected zero acceleration at the origin")
	}
}

func TestJ2Direction(t *testing.T) {
	equator := J2(mgl64.Vec3{EarthRadiusECI + 400e3, 0, 0})
	if equator.X() >= 0 {
		t.Errorf("J2 should strengthen gravity at the equator, got %v", equator)
	}

	pole := J2(mgl64.Vec3{0, 0, EarthRadiusECI + 400e3})
	if pole.Z() <= 0 {
		t.Errorf("J2 should weaken gravity at the pole, got %v", pole)
	}

	pos := mgl64.Vec3{7000e3, 100e3, 300e3}
	ratio := J2(pos).Len() / PointMass(pos).Len()
	if ratio < 1e-4 || ratio > 1e-2 {
		t.Errorf("J2 should be a small correction, ratio %g", ratio)
	}
}

func TestGravityToggle(t *testing.T) {
	pos := mgl64.Vec3{7000e3, 0, 1000e3}
	if Gravity(pos, false) != PointMass(pos) {
		t.Error("expected point mass when J2 disabled")
	}
	if Gravity(pos, true) == PointMass(pos) {
		t.Error("expected J2 term when enabled")
	}
}

func TestCentralGravityScalesWithMu(t *testing.T) {
	pos := mgl64.Vec3{7000e3, 2000e3, 1000e3}
	if CentralGravity(pos, MuEarth, true) != Gravity(pos, true) {
		t.Error("expected Earth gravity for Earth's mu")
	}
	full := CentralGravity(pos, MuEarth, true)
	half := CentralGravity(pos, MuEarth/2, true)
	for i := range full {
		if !scalar.EqualWithinRel(half[i], full[i]/2, 1e-12) {
			t.Errorf("component %d: expected %g, got %g", i, full[i]/2, half[i])
		}
	}
}
