package physics

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestAtmosphereSeaLevel(t *testing.T) {
	c := Atmosphere(0)

	if !scalar.EqualWithinAbs(c.Temperature, 288.15, 1e-9) {
		t.Errorf("expected T 288.15, got %f", c.Temperature)
	}
	if !scalar.EqualWithinAbs(c.Pressure, 101325, 1e-6) {
		t.Errorf("expected p 101325, got %f", c.Pressure)
	}
	if !scalar.EqualWithinAbs(c.Density, 1.225, 1e-4) {
		t.Errorf("expected rho 1.225, got %f", c.Density)
	}
	if !scalar.EqualWithinAbs(c.SpeedOfSound, 340.294, 1e-2) {
		t.Errorf("expected a 340.294, got %f", c.SpeedOfSound)
	}
}

func TestAtmosphereTableValues(t *testing.T) {
	tests := []struct {
		alt      float64
		temp     float64
		pressure float64
	}{
		{11_000, 216.65, 22632.1},
		{20_000, 216.65, 5474.89},
		{32_000, 228.65, 868.019},
		{47_000, 270.65, 110.906},
		{51_000, 270.65, 66.9389},
		{71_000, 214.65, 3.95642},
	}

	for _, tt := range tests {
		c := Atmosphere(tt.alt)
		if !scalar.EqualWithinAbs(c.Temperature, tt.temp, 1e-9) {
			t.Errorf("alt %.0f: expected T %f, got %f", tt.alt, tt.temp, c.Temperature)
		}
		if !scalar.EqualWithinRel(c.Pressure, tt.pressure, 1e-9) {
			t.Errorf("alt %.0f: expected p %f, got %f", tt.alt, tt.pressure, c.Pressure)
		}
	}
}

func TestAtmosphereContinuousAtLayerBases(t *testing.T) {
	for _, l := range layers[1:] {
		below := Atmosphere(l.base - 1e-6)
		at := Atmosphere(l.base)
		if !scalar.EqualWithinRel(below.Pressure, at.Pressure, 1e-4) {
			t.Errorf("pressure jump at %.0f m: %f vs %f", l.base, below.Pressure, at.Pressure)
		}
		if !scalar.EqualWithinAbs(below.Temperature, at.Temperature, 1e-6) {
			t.Errorf("temperature jump at %.0f m: %f vs %f", l.base, below.Temperature, at.Temperature)
		}
	}
}

func TestAtmosphereClamps(t *testing.T) {
	if Atmosphere(-500) != Atmosphere(0) {
		t.Error("below sea level should clamp to sea level")
	}
	top := Atmosphere(AtmosphereCeiling)
	if Atmosphere(150_000) != top {
		t.Error("above the ceiling should clamp to the ceiling")
	}
	if top.Density <= 0 {
		t.Errorf("density at ceiling must stay positive, got %g", top.Density)
	}
}

func TestDensityDecreasesWithAltitude(t *testing.T) {
	prev := Density(0)
	for h := 500.0; h <= AtmosphereCeiling; h += 500 {
		rho := Density(h)
		if rho >= prev {
			t.Fatalf("density not decreasing at %.0f m: %g >= %g", h, rho, prev)
		}
		prev = rho
	}
}

func TestMachAndDynamicPressure(t *testing.T) {
	a := Atmosphere(0).SpeedOfSound
	if !scalar.EqualWithinAbs(Mach(a, 0), 1, 1e-12) {
		t.Errorf("expected Mach 1, got %f", Mach(a, 0))
	}
	q := DynamicPressure(100, 0)
	if !scalar.EqualWithinAbs(q, 0.5*Density(0)*1e4, 1e-9) {
		t.Errorf("unexpected dynamic pressure %f", q)
	}
}
