package physics

import "math"

// AtmosphereCeiling is the top of the modelled atmosphere. Queries above it
// return the ceiling values.
const AtmosphereCeiling = 86_000.0

// Conditions is the state of the air at a given geometric altitude.
type Conditions struct {
	Density      float64 // kg/m^3
	Pressure     float64 // Pa
	Temperature  float64 // K
	SpeedOfSound float64 // m/s
}

type layer struct {
	base        float64 // m
	temperature float64 // K at base
	lapse       float64 // K/m
	pressure    float64 // Pa at base
}

// ISA 1976 layers up to the mesopause. Base values of each layer equal the
// top values of the one below.
var layers = [...]layer{
	{0, 288.15, -0.0065, 101325.0},
	{11_000, 216.65, 0.0, 22632.1},
	{20_000, 216.65, 0.001, 5474.89},
	{32_000, 228.65, 0.0028, 868.019},
	{47_000, 270.65, 0.0, 110.906},
	{51_000, 270.65, -0.0028, 66.9389},
	{71_000, 214.65, -0.002, 3.95642},
}

// Atmosphere evaluates the seven-layer standard atmosphere. Altitude is
// clamped to [0, AtmosphereCeiling] so density is always positive.
func Atmosphere(altitude float64) Conditions {
	h := math.Min(math.Max(altitude, 0), AtmosphereCeiling)

	l := layers[0]
	for i := len(layers) - 1; i >= 0; i-- {
		if h >= layers[i].base {
			l = layers[i]
			break
		}
	}

	dh := h - l.base
	var temp, pressure float64
	if l.lapse == 0 {
		temp = l.temperature
		pressure = l.pressure * math.Exp(-G0*dh/(RAir*temp))
	} else {
		temp = l.temperature + l.lapse*dh
		pressure = l.pressure * math.Pow(temp/l.temperature, -G0/(l.lapse*RAir))
	}

	return Conditions{
		Density:      pressure / (RAir * temp),
		Pressure:     pressure,
		Temperature:  temp,
		SpeedOfSound: math.Sqrt(Gamma * RAir * temp),
	}
}

// Density is a shorthand for Atmosphere(altitude).Density.
func Density(altitude float64) float64 {
	return Atmosphere(altitude).Density
}

// Mach returns the Mach number of a given airspeed at altitude.
func Mach(speed, altitude float64) float64 {
	return speed / Atmosphere(altitude).SpeedOfSound
}

// DynamicPressure returns q = 0.5 rho v^2.
func DynamicPressure(speed, altitude float64) float64 {
	return 0.5 * Density(altitude) * speed * speed
}
