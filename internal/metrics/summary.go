package metrics

import (
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// FlightSummary holds the headline performance numbers of a run.
type FlightSummary struct {
	ApogeeM          float64 `json:"apogee_m"`
	ApogeeTime       float64 `json:"apogee_time"`
	MaxSpeed         float64 `json:"max_speed"`
	MaxMach          float64 `json:"max_mach"`
	MaxAccel         float64 `json:"max_accel"`
	MaxAccelG        float64 `json:"max_accel_g"`
	MaxQ             float64 `json:"max_q"`
	MaxQTime         float64 `json:"max_q_time"`
	FlightTime       float64 `json:"flight_time"`
	ImpactSpeed      float64 `json:"impact_speed"`
	BurnoutTime      float64 `json:"burnout_time"`
	GimbalSaturation float64 `json:"gimbal_saturation"`
}

// Summarize reduces a run to its FlightSummary. BurnoutTime is the time
// of the last BURNOUT event, zero if no stage burnt out. GimbalSaturation
// is copied from the run's gimbal_saturation metric when recorded.
func Summarize(r *sim.Result) FlightSummary {
	if len(r.States) == 0 {
		return FlightSummary{}
	}

	samples := Telemetry(r.States)
	times := Column(samples, func(s Sample) float64 { return s.Time })
	alt := Column(samples, func(s Sample) float64 { return s.Altitude })
	speed := Column(samples, func(s Sample) float64 { return s.Speed })
	mach := Column(samples, func(s Sample) float64 { return s.Mach })
	accel := Column(samples, func(s Sample) float64 { return s.Accel })
	q := Column(samples, func(s Sample) float64 { return s.DynamicPressure })

	apogee := floats.MaxIdx(alt)
	maxQ := floats.MaxIdx(q)
	maxAccel := floats.Max(accel)
	final := r.Final()

	out := FlightSummary{
		ApogeeM:     alt[apogee],
		ApogeeTime:  times[apogee],
		MaxSpeed:    floats.Max(speed),
		MaxMach:     floats.Max(mach),
		MaxAccel:    maxAccel,
		MaxAccelG:   maxAccel / physics.G0,
		MaxQ:        q[maxQ],
		MaxQTime:    times[maxQ],
		FlightTime:  final.Time,
		ImpactSpeed: final.Speed(),
	}
	out.GimbalSaturation = r.Metrics["gimbal_saturation"]
	if burnouts := r.EventsOf(sim.EventBurnout); len(burnouts) > 0 {
		out.BurnoutTime = burnouts[len(burnouts)-1].Time
	}
	return out
}
