package orbital

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidOrbit = errors.New("orbital: invalid orbit")

// Transfer is a two-impulse Hohmann transfer between coplanar circular
// orbits.
type Transfer struct {
	R1           float64 `json:"r1"`
	R2           float64 `json:"r2"`
	DV1          float64 `json:"dv1"`
	DV2          float64 `json:"dv2"`
	Total        float64 `json:"total"`
	TransferTime float64 `json:"transfer_time"`
}

// CircularVelocity is the speed of a circular orbit of radius r.
func CircularVelocity(r, mu float64) float64 {
	return math.Sqrt(mu / r)
}

// VisViva is the speed at radius r on an orbit with semi-major axis a.
func VisViva(r, a, mu float64) float64 {
	return math.Sqrt(mu * (2/r - 1/a))
}

// Hohmann computes the transfer between circular orbits of radius r1 and
// r2. Either direction is allowed; burn magnitudes are always positive.
func Hohmann(r1, r2, mu float64) (Transfer, error) {
	if r1 <= 0 || r2 <= 0 {
		return Transfer{}, fmt.Errorf("%w: radii must be positive, got %f and %f", ErrInvalidOrbit, r1, r2)
	}
	if mu <= 0 {
		return Transfer{}, fmt.Errorf("%w: mu must be positive, got %g", ErrInvalidOrbit, mu)
	}

	a := (r1 + r2) / 2
	dv1 := math.Abs(VisViva(r1, a, mu) - CircularVelocity(r1, mu))
	dv2 := math.Abs(CircularVelocity(r2, mu) - VisViva(r2, a, mu))

	return Transfer{
		R1:           r1,
		R2:           r2,
		DV1:          dv1,
		DV2:          dv2,
		Total:        dv1 + dv2,
		TransferTime: math.Pi * math.Sqrt(a*a*a/mu),
	}, nil
}
