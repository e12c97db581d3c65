package physics

// Physical constants shared by the flight and orbital models.
const (
	G0 = 9.80665 // standard gravity, m/s^2

	EarthRadius    = 6_371_000.0 // mean radius used by the flight frame, m
	EarthRadiusECI = 6_378_137.0 // equatorial radius used by the ECI models, m
	MuEarth        = 3.986004418e14
	J2Earth        = 1.08263e-3

	RAir  = 287.05287 // specific gas constant for dry air, J/(kg K)
	Gamma = 1.4

	SeaLevelTemperature = 288.15   // K
	SeaLevelPressure    = 101325.0 // Pa
)
