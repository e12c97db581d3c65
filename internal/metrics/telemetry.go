package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/physics"
)

// Sample is the derived flight data for one recorded state.
type Sample struct {
	Time            float64
	Altitude        float64
	Speed           float64
	VerticalSpeed   float64
	Mach            float64
	DynamicPressure float64
	Accel           float64 // |dv/dt| over the preceding tick
	Pitch           float64 // degrees
	AoA             float64 // degrees
	Mass            float64
	Stage           int
}

// NewSample derives cur's telemetry. prev supplies the acceleration
// estimate; pass cur itself for the first state.
func NewSample(prev, cur dynamo.State) Sample {
	alt := math.Max(cur.Altitude(), 0)
	speed := cur.Speed()
	return Sample{
		Time:            cur.Time,
		Altitude:        cur.Altitude(),
		Speed:           speed,
		VerticalSpeed:   cur.VerticalSpeed(),
		Mach:            physics.Mach(speed, alt),
		DynamicPressure: physics.DynamicPressure(speed, alt),
		Accel:           acceleration(prev, cur),
		Pitch:           cur.Pitch() * 180 / math.Pi,
		AoA:             cur.AngleOfAttack() * 180 / math.Pi,
		Mass:            cur.Mass,
		Stage:           cur.Stage,
	}
}

// Telemetry returns one sample per state.
func Telemetry(states []dynamo.State) []Sample {
	out := make([]Sample, len(states))
	for i, x := range states {
		prev := x
		if i > 0 {
			prev = states[i-1]
		}
		out[i] = NewSample(prev, x)
	}
	return out
}

func acceleration(prev, cur dynamo.State) float64 {
	dt := cur.Time - prev.Time
	if dt <= 0 {
		return 0
	}
	return cur.Vel.Sub(prev.Vel).Len() / dt
}

// Column extracts one field from every sample, for charts.
func Column(samples []Sample, field func(Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = field(s)
	}
	return out
}
