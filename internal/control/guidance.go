package control

import (
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// Phase is a stage of the pitch program.
type Phase int

const (
	PhaseVertical Phase = iota
	PhasePitchover
	PhaseGravityTurn
)

func (p Phase) String() string {
	switch p {
	case PhaseVertical:
		return "vertical"
	case PhasePitchover:
		return "pitchover"
	case PhaseGravityTurn:
		return "gravity-turn"
	default:
		return "unknown"
	}
}

// gravityTurnMinSpeed is the speed below which the flight-path angle is
// too noisy to follow.
const gravityTurnMinSpeed = 5.0

// Guidance is the open-loop pitch program. Phases only advance:
// vertical -> pitchover -> gravity turn.
type Guidance struct {
	params     vehicle.Guidance
	phase      Phase
	phaseStart float64
}

func NewGuidance(p vehicle.Guidance) *Guidance {
	return &Guidance{params: p}
}

func (g *Guidance) Phase() Phase { return g.phase }

func (g *Guidance) Reset() {
	g.phase = PhaseVertical
	g.phaseStart = 0
}

// Update advances the phase machine to x and returns the commanded pitch
// in radians.
func (g *Guidance) Update(x dynamo.State) float64 {
	p := g.params
	t := x.Time

	if g.phase == PhaseVertical && g.verticalComplete(x) {
		g.phase = PhasePitchover
		g.phaseStart = t
	}
	if g.phase == PhasePitchover && t-g.phaseStart >= p.PitchoverDuration {
		g.phase = PhaseGravityTurn
		g.phaseStart = t
	}

	var deg float64
	switch g.phase {
	case PhaseVertical:
		deg = 90
	case PhasePitchover:
		frac := (t - g.phaseStart) / p.PitchoverDuration
		deg = 90 - (90-p.PitchoverAngle)*frac
	case PhaseGravityTurn:
		deg = p.PitchoverAngle
		if speed := x.Speed(); speed > gravityTurnMinSpeed {
			deg = math.Asin(x.VerticalSpeed()/speed) * 180 / math.Pi
		}
		deg = math.Max(p.MinPitch, math.Min(90, deg))
	}
	return deg * math.Pi / 180
}

// verticalComplete applies the altitude threshold when one is set and the
// time threshold otherwise.
func (g *Guidance) verticalComplete(x dynamo.State) bool {
	if g.params.VerticalAltitude > 0 {
		return x.Altitude() >= g.params.VerticalAltitude
	}
	return x.Time >= g.params.VerticalTime
}
