package metrics

import (
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

// Peak tracks the running maximum of a per-tick quantity and when it
// occurred.
type Peak struct {
	name    string
	extract func(prev, cur dynamo.State) float64
	max     float64
	at      float64
	samples int
}

func NewPeak(name string, extract func(prev, cur dynamo.State) float64) *Peak {
	return &Peak{name: name, extract: extract}
}

func NewApogee() *Peak {
	return NewPeak("apogee", func(_, cur dynamo.State) float64 { return cur.Altitude() })
}

func NewMaxSpeed() *Peak {
	return NewPeak("max_speed", func(_, cur dynamo.State) float64 { return cur.Speed() })
}

func NewMaxMach() *Peak {
	return NewPeak("max_mach", func(prev, cur dynamo.State) float64 { return NewSample(prev, cur).Mach })
}

func NewMaxQ() *Peak {
	return NewPeak("max_q", func(prev, cur dynamo.State) float64 { return NewSample(prev, cur).DynamicPressure })
}

func NewMaxAccel() *Peak {
	return NewPeak("max_accel", acceleration)
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(prev, cur dynamo.State, _ dynamo.GncCommand) {
	v := p.extract(prev, cur)
	if p.samples == 0 || v > p.max {
		p.max = v
		p.at = cur.Time
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.max }

// Time is when the maximum was observed.
func (p *Peak) Time() float64 { return p.at }

func (p *Peak) Reset() {
	p.max = 0
	p.at = 0
	p.samples = 0
}

// Standard returns a fresh set of the flight metrics reported by the CLI.
func Standard() []dynamo.Metric {
	return []dynamo.Metric{
		NewApogee(),
		NewMaxSpeed(),
		NewMaxMach(),
		NewMaxQ(),
		NewMaxAccel(),
		NewControlEffort(),
	}
}

// ForMission is Standard plus the metrics that need the vehicle.
func ForMission(m *vehicle.Mission) []dynamo.Metric {
	return append(Standard(), NewGimbalSaturation(m))
}
